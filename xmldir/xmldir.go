// Package xmldir parses an E57 XML directory into PointCloud descriptors,
// using the standard library's encoding/xml.
package xmldir

import (
	"encoding/xml"
	"strconv"

	"github.com/cocosip/go-e57/pointcloud"
)

// recordNames maps the XML element name of a prototype field to its
// pointcloud.RecordName. Element names not present here are carried
// through as RecordName("") with RawTag set to the literal element name:
// schema inference is out of scope, but outright rejecting unrecognized
// fields would make the reader needlessly brittle against vendor
// extension fields.
var recordNames = map[string]pointcloud.RecordName{
	"cartesianX":            pointcloud.RecordCartesianX,
	"cartesianY":            pointcloud.RecordCartesianY,
	"cartesianZ":            pointcloud.RecordCartesianZ,
	"cartesianInvalidState": pointcloud.RecordCartesianInvalidState,
	"colorRed":              pointcloud.RecordColorRed,
	"colorGreen":            pointcloud.RecordColorGreen,
	"colorBlue":             pointcloud.RecordColorBlue,
	"intensity":             pointcloud.RecordIntensity,
	"rowIndex":              pointcloud.RecordRowIndex,
	"columnIndex":           pointcloud.RecordColumnIndex,
}

// xmlRoot mirrors the subset of the E57 XML directory structure this
// package decodes: <e57Root><data3D><vector>...</vector></data3D></e57Root>.
type xmlRoot struct {
	XMLName xml.Name  `xml:"e57Root"`
	Data3D  xmlData3D `xml:"data3D"`
}

type xmlData3D struct {
	PointClouds []xmlVector `xml:"vector"`
}

type xmlVector struct {
	GUID   string       `xml:"guid"`
	Name   string       `xml:"name"`
	Points xmlPoints    `xml:"points"`
	Bounds *xmlBounds   `xml:"cartesianBounds"`
	Colors *xmlColorLim `xml:"colorLimits"`
}

type xmlPoints struct {
	FileOffset string       `xml:"fileOffset,attr"`
	Records    uint64       `xml:"recordCount,attr"`
	Prototype  xmlPrototype `xml:"prototype"`
}

type xmlPrototype struct {
	Fields []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName   xml.Name
	Type      string   `xml:"type,attr"`
	Precision string   `xml:"precision,attr"`
	Min       *int64   `xml:"minimum,attr"`
	Max       *int64   `xml:"maximum,attr"`
	Scale     *float64 `xml:"scale,attr"`
	Offset    *float64 `xml:"offset,attr"`
}

type xmlBounds struct {
	XMin *float64 `xml:"xMinimum"`
	XMax *float64 `xml:"xMaximum"`
	YMin *float64 `xml:"yMinimum"`
	YMax *float64 `xml:"yMaximum"`
	ZMin *float64 `xml:"zMinimum"`
	ZMax *float64 `xml:"zMaximum"`
}

type xmlColorLim struct {
	RedMin   *int64 `xml:"colorRedMinimum"`
	RedMax   *int64 `xml:"colorRedMaximum"`
	GreenMin *int64 `xml:"colorGreenMinimum"`
	GreenMax *int64 `xml:"colorGreenMaximum"`
	BlueMin  *int64 `xml:"colorBlueMinimum"`
	BlueMax  *int64 `xml:"colorBlueMaximum"`
}

// Parse decodes raw E57 XML directory bytes into PointCloud descriptors.
func Parse(raw []byte) ([]pointcloud.PointCloud, error) {
	var root xmlRoot
	if err := xml.Unmarshal(raw, &root); err != nil {
		return nil, err
	}

	out := make([]pointcloud.PointCloud, 0, len(root.Data3D.PointClouds))
	for _, v := range root.Data3D.PointClouds {
		offset, err := strconv.ParseUint(v.Points.FileOffset, 10, 64)
		if err != nil {
			return nil, err
		}
		proto, err := buildPrototype(v.Points.Prototype)
		if err != nil {
			return nil, err
		}
		out = append(out, pointcloud.PointCloud{
			Guid:            v.GUID,
			Name:            v.Name,
			FileOffset:      offset,
			Records:         v.Points.Records,
			Prototype:       proto,
			CartesianBounds: buildBounds(v.Bounds),
			ColorLimits:     buildColorLimits(v.Colors),
		})
	}
	return out, nil
}

func buildPrototype(p xmlPrototype) (pointcloud.Prototype, error) {
	proto := make(pointcloud.Prototype, 0, len(p.Fields))
	for _, f := range p.Fields {
		dt, err := buildDataType(f)
		if err != nil {
			return nil, err
		}
		name, known := recordNames[f.XMLName.Local]
		if !known {
			name = pointcloud.RecordName("")
		}
		proto = append(proto, pointcloud.ProtoField{
			Name:     name,
			RawTag:   f.XMLName.Local,
			DataType: dt,
		})
	}
	return proto, nil
}

func buildDataType(f xmlField) (pointcloud.RecordDataType, error) {
	switch f.Type {
	case "Float":
		dt := pointcloud.RecordDataType{Kind: pointcloud.KindDouble}
		// precision defaults to "double" when absent.
		if f.Precision == "single" {
			dt.Kind = pointcloud.KindSingle
		}
		return dt, nil
	case "ScaledInteger":
		dt := pointcloud.RecordDataType{Kind: pointcloud.KindScaledInteger}
		if f.Min != nil {
			dt.Min = *f.Min
		}
		if f.Max != nil {
			dt.Max = *f.Max
		}
		if f.Scale != nil {
			dt.Scale = *f.Scale
		} else {
			dt.Scale = 1
		}
		if f.Offset != nil {
			dt.Offset = *f.Offset
		}
		return dt, nil
	default: // "Integer" and anything else defaults to the integer encoding
		dt := pointcloud.RecordDataType{Kind: pointcloud.KindInteger}
		if f.Min != nil {
			dt.Min = *f.Min
		}
		if f.Max != nil {
			dt.Max = *f.Max
		}
		return dt, nil
	}
}

func buildBounds(b *xmlBounds) *pointcloud.Bounds {
	if b == nil {
		return nil
	}
	return &pointcloud.Bounds{
		XMin: b.XMin, XMax: b.XMax,
		YMin: b.YMin, YMax: b.YMax,
		ZMin: b.ZMin, ZMax: b.ZMax,
	}
}

func buildColorLimits(c *xmlColorLim) *pointcloud.ColorLimits {
	if c == nil {
		return nil
	}
	return &pointcloud.ColorLimits{
		RedMin: intRaw(c.RedMin), RedMax: intRaw(c.RedMax),
		GreenMin: intRaw(c.GreenMin), GreenMax: intRaw(c.GreenMax),
		BlueMin: intRaw(c.BlueMin), BlueMax: intRaw(c.BlueMax),
	}
}

func intRaw(v *int64) *pointcloud.RawValue {
	if v == nil {
		return nil
	}
	return &pointcloud.RawValue{Kind: pointcloud.RawInteger, Int: *v}
}
