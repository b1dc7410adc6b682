package source

import (
	"encoding/xml"
	"fmt"
	"os"
)

// InspectionDocument is the root of an FMCSA inspection export. A document
// with a single inspection omits no wrapper; encoding/xml decodes both the
// singular and repeated cases into the slice.
type InspectionDocument struct {
	XMLName     xml.Name         `xml:"Inspections"`
	Inspections []InspectionNode `xml:"Inspection"`
}

// InspectionNode is one inspection as exported, hierarchy intact. Vehicle and
// Violation slots may appear once or many times per inspection.
type InspectionNode struct {
	Main       InspectionMain  `xml:"InspMain"`
	Drivers    []DriverNode    `xml:"Drivers>Driver"`
	Vehicles   []VehicleNode   `xml:"Vehicles>Vehicle"`
	Violations []ViolationNode `xml:"Violations>Violation"`
}

type InspectionMain struct {
	InspectionID string `xml:"inspectionId"`
	PostDate     string `xml:"InspectionPostDate"`
}

type DriverNode struct {
	LastName  string `xml:"DriverLastName"`
	LicenseID string `xml:"DriverLicenseID"`
}

type VehicleNode struct {
	UnitTypeCode string `xml:"VehicleUnitTypeCode"`
	CompanyID    string `xml:"VehicleCompanyID"`
	LicenseID    string `xml:"VehicleLicenseID"`
}

type ViolationNode struct {
	FedVioCode  string `xml:"FedVioCode"`
	Category    string `xml:"ViolationCategory"`
	SectionDesc string `xml:"SectionDesc"`
}

// ReadInspectionXML parses an inspection export file.
func ReadInspectionXML(path string) (*InspectionDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc InspectionDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Inspections) == 0 {
		return nil, fmt.Errorf("%s: no Inspection elements under Inspections root", path)
	}
	return &doc, nil
}
