// Package notice builds notice records from Federal Register documents:
// metadata from the Federal Register API and amendments parsed from the
// notice's full text XML.
package notice

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/coolbeans/regparser/pkg/amendment"
	"github.com/coolbeans/regparser/pkg/label"
	"github.com/coolbeans/regparser/pkg/regtext"
)

// Document is the subset of a Federal Register API document the notice
// builder reads.
type Document struct {
	Abstract            string   `json:"abstract"`
	Action              string   `json:"action"`
	AgencyNames         []string `json:"agency_names"`
	Citation            string   `json:"citation"`
	CommentsCloseOn     string   `json:"comments_close_on"`
	Dates               string   `json:"dates"`
	DocumentNumber      string   `json:"document_number"`
	EffectiveOn         string   `json:"effective_on"`
	EndPage             int      `json:"end_page"`
	FullTextXMLURL      string   `json:"full_text_xml_url"`
	HTMLURL             string   `json:"html_url"`
	PublicationDate     string   `json:"publication_date"`
	RegulationIDNumbers []string `json:"regulation_id_numbers"`
	StartPage           int      `json:"start_page"`
	Type                string   `json:"type"`
	Volume              int      `json:"volume"`
}

// Meta holds document fields kept verbatim for later processing.
type Meta struct {
	Dates     string `json:"dates,omitempty"`
	EndPage   int    `json:"end_page,omitempty"`
	StartPage int    `json:"start_page,omitempty"`
	Type      string `json:"type,omitempty"`
}

// InstructionRecord describes one AMDPAR of the notice: the text, the
// running context after it, how many amendments it produced and the
// section it precedes, if any.
type InstructionRecord struct {
	Text           string   `json:"text"`
	Context        []string `json:"context"`
	AmendmentCount int      `json:"amendment_count"`
	Section        string   `json:"section,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Notice is the structured form of a final rule or proposal.
type Notice struct {
	CFRTitle            int                   `json:"cfr_title"`
	CFRPart             string                `json:"cfr_part"`
	Abstract            string                `json:"abstract,omitempty"`
	Action              string                `json:"action,omitempty"`
	AgencyNames         []string              `json:"agency_names,omitempty"`
	CommentsCloseOn     string                `json:"comments_close_on,omitempty"`
	DocumentNumber      string                `json:"document_number,omitempty"`
	PublicationDate     string                `json:"publication_date,omitempty"`
	RegulationIDNumbers []string              `json:"regulation_id_numbers,omitempty"`
	EffectiveOn         string                `json:"effective_on,omitempty"`
	InitialEffectiveOn  string                `json:"initial_effective_on,omitempty"`
	FRURL               string                `json:"fr_url,omitempty"`
	FRCitation          string                `json:"fr_citation,omitempty"`
	FRVolume            int                   `json:"fr_volume"`
	Meta                Meta                  `json:"meta"`
	Contact             string                `json:"contact,omitempty"`
	Amendments          []amendment.Amendment `json:"amendments,omitempty"`
	Instructions        []InstructionRecord   `json:"instructions,omitempty"`
	Sections            []*regtext.Node       `json:"sections,omitempty"`
}

// Builder turns documents and their XML into notices.
type Builder struct {
	parser *amendment.Parser
	log    *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithParser sets the instruction parser.
func WithParser(parser *amendment.Parser) BuilderOption {
	return func(builder *Builder) {
		builder.parser = parser
	}
}

// WithBuilderLogger sets the logger for skipped instructions and sections.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(builder *Builder) {
		builder.log = logger
	}
}

// NewBuilder creates a Builder. Without options it parses with the default
// grammar and logs to slog.Default().
func NewBuilder(options ...BuilderOption) *Builder {
	builder := &Builder{log: slog.Default()}
	for _, option := range options {
		option(builder)
	}
	if builder.parser == nil {
		builder.parser = amendment.NewParser(amendment.WithLogger(builder.log))
	}
	return builder
}

// Build copies the document's metadata into a new notice and, when the
// notice XML is given, processes it.
func (b *Builder) Build(cfrTitle int, cfrPart string, doc *Document, noticeXML []byte) (*Notice, error) {
	notice := &Notice{
		CFRTitle:            cfrTitle,
		CFRPart:             cfrPart,
		Abstract:            doc.Abstract,
		Action:              doc.Action,
		AgencyNames:         doc.AgencyNames,
		CommentsCloseOn:     doc.CommentsCloseOn,
		DocumentNumber:      doc.DocumentNumber,
		PublicationDate:     doc.PublicationDate,
		RegulationIDNumbers: doc.RegulationIDNumbers,
		EffectiveOn:         doc.EffectiveOn,
		InitialEffectiveOn:  doc.EffectiveOn,
		FRURL:               doc.HTMLURL,
		FRCitation:          doc.Citation,
		FRVolume:            doc.Volume,
		Meta: Meta{
			Dates:     doc.Dates,
			EndPage:   doc.EndPage,
			StartPage: doc.StartPage,
			Type:      doc.Type,
		},
	}

	if len(noticeXML) == 0 {
		return notice, nil
	}
	if err := b.ProcessXML(notice, noticeXML); err != nil {
		return nil, err
	}
	return notice, nil
}

// ProcessXML reads the contact and the amendment instructions of a notice.
// Instructions are parsed in document order with the running context
// carried from one to the next; an instruction that fails is recorded and
// skipped.
func (b *Builder) ProcessXML(notice *Notice, noticeXML []byte) error {
	root, err := regtext.Decode(bytes.NewReader(noticeXML))
	if err != nil {
		return fmt.Errorf("failed to read notice XML: %w", err)
	}

	if contact := findContact(root); contact != "" {
		notice.Contact = contact
	}

	document := b.parser.NewDocument(label.Label{})
	built := make(map[*regtext.Element]*regtext.Node)
	visitInstructions(root, func(instruction *regtext.Element, siblings []regtext.Element, index int) {
		parsed := document.Parse(instruction.InnerXML)
		record := InstructionRecord{
			Text:           instruction.Text(),
			Context:        append([]string{}, parsed.Context...),
			AmendmentCount: len(parsed.Amendments),
		}
		if parsed.Err != nil {
			record.Error = parsed.Err.Error()
		}

		if sectionElement := regtext.FindSection(siblings, index); sectionElement != nil {
			section, seen := built[sectionElement]
			if !seen {
				var err error
				section, err = regtext.BuildSection(notice.CFRPart, sectionElement, regtext.WithoutEditorialMarks())
				if err != nil {
					b.log.Warn("skipping amended section", "error", err, "document", notice.DocumentNumber)
					section = nil
				} else {
					notice.Sections = append(notice.Sections, section)
				}
				built[sectionElement] = section
			}
			if section != nil {
				record.Section = section.LabelText()
			}
		}

		notice.Instructions = append(notice.Instructions, record)
	})

	notice.Amendments = document.Amendments()
	b.log.Debug("processed notice XML",
		"document", notice.DocumentNumber,
		"instructions", len(notice.Instructions),
		"amendments", len(notice.Amendments),
		"failures", len(document.Failures()))
	return nil
}

// findContact returns the text of the first paragraph of the FURINF
// ("for further information") block.
func findContact(root *regtext.Element) string {
	for _, furinf := range root.FindAll("FURINF") {
		if paragraph := furinf.Find("P"); paragraph != nil {
			return paragraph.Text()
		}
	}
	return ""
}

// visitInstructions calls visit for every AMDPAR below parent in document
// order, with the AMDPAR's siblings and its index among them.
func visitInstructions(parent *regtext.Element, visit func(*regtext.Element, []regtext.Element, int)) {
	for i := range parent.Children {
		child := &parent.Children[i]
		if child.Name() == "AMDPAR" {
			visit(child, parent.Children, i)
			continue
		}
		visitInstructions(child, visit)
	}
}
