package render

// pointsPerMM converts millimetres to PostScript points.
const pointsPerMM = 72 / 25.4

// ExportOptions is the fixed option set used for every exported card.
//
// Only TrimMarks, Offset, CompressArt and PageInformation change the PDF we
// write. The remaining fields describe prepress settings that the print shop
// expects and are carried in the document metadata.
type ExportOptions struct {
	AcrobatLayers      bool
	ColorBars          bool
	CompressArt        bool
	EmbedICCProfile    bool
	EnablePlainText    bool
	GenerateThumbnails bool
	Optimization       bool
	PageInformation    bool
	TrimMarks          bool

	// Offset is the gap between the trim edge and the trim marks, in points.
	Offset float64
}

// DefaultExportOptions returns the export option set used by the batch export.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		AcrobatLayers:      true,
		ColorBars:          false,
		CompressArt:        true,
		EmbedICCProfile:    true,
		EnablePlainText:    true,
		GenerateThumbnails: true,
		Optimization:       true,
		PageInformation:    false,
		TrimMarks:          true,
		Offset:             12,
	}
}

// markLength is the length of each trim mark in millimetres.
const markLength = 5.0

// Margin is the space around the trimmed card, in millimetres, needed for
// trim marks and page information.
func (o ExportOptions) Margin() float64 {
	if !o.TrimMarks && !o.PageInformation {
		return 0
	}
	return o.OffsetMM() + markLength
}

// OffsetMM is Offset converted to millimetres.
func (o ExportOptions) OffsetMM() float64 {
	return o.Offset / pointsPerMM
}

// Keywords lists the prepress flags for the document metadata.
func (o ExportOptions) Keywords() string {
	flags := []struct {
		name string
		on   bool
	}{
		{"acrobat-layers", o.AcrobatLayers},
		{"color-bars", o.ColorBars},
		{"embed-icc", o.EmbedICCProfile},
		{"plain-text", o.EnablePlainText},
		{"thumbnails", o.GenerateThumbnails},
		{"optimized", o.Optimization},
	}

	var out []byte
	for _, f := range flags {
		if !f.on {
			continue
		}
		if len(out) > 0 {
			out = append(out, ' ')
		}
		out = append(out, f.name...)
	}
	return string(out)
}
