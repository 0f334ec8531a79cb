package amendment

import "github.com/coolbeans/regparser/pkg/label"

// Instruction is the outcome of parsing one instruction of a document.
type Instruction struct {
	Text       string
	Amendments []Amendment
	Context    label.Label
	Err        error
}

// Document parses the instructions of one notice in document order,
// threading the running context from each instruction to the next. An
// instruction that fails is logged and recorded, and the document carries
// on with the context it had before that instruction.
type Document struct {
	parser       *Parser
	context      label.Label
	instructions []Instruction
}

// NewDocument starts a document with the given initial context, usually
// empty.
func (p *Parser) NewDocument(initial label.Label) *Document {
	return &Document{parser: p, context: initial.Clone()}
}

// Parse parses the next instruction of the document.
func (d *Document) Parse(text string) Instruction {
	amendments, context, err := d.parser.ParseInstruction(text, d.context)
	instruction := Instruction{Text: text, Amendments: amendments, Err: err}
	if err != nil {
		d.parser.log.Warn("skipping instruction", "error", err, "text", text)
	} else {
		d.context = context
	}
	instruction.Context = d.context.Clone()
	d.instructions = append(d.instructions, instruction)
	return instruction
}

// Context returns the running context after the last parsed instruction.
func (d *Document) Context() label.Label {
	return d.context.Clone()
}

// Instructions returns every instruction parsed so far.
func (d *Document) Instructions() []Instruction {
	return d.instructions
}

// Amendments returns the amendments of every successful instruction in
// document order.
func (d *Document) Amendments() []Amendment {
	var amendments []Amendment
	for _, instruction := range d.instructions {
		amendments = append(amendments, instruction.Amendments...)
	}
	return amendments
}

// Failures returns the instructions that could not be parsed.
func (d *Document) Failures() []Instruction {
	var failures []Instruction
	for _, instruction := range d.instructions {
		if instruction.Err != nil {
			failures = append(failures, instruction)
		}
	}
	return failures
}
