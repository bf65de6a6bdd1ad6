package draft

import (
	"fmt"
	"strings"

	"github.com/praxislegal/lexia/pkg/errors"
)

// DocumentType enumerates the drafting templates the service supports.
type DocumentType string

const (
	DocDemandLetter    DocumentType = "demand_letter"
	DocComplaint       DocumentType = "complaint"
	DocAnswer          DocumentType = "answer"
	DocAppeal          DocumentType = "appeal"
	DocContract        DocumentType = "contract"
	DocSettlement      DocumentType = "settlement_agreement"
	DocPowerOfAttorney DocumentType = "power_of_attorney"
	DocLegalOpinion    DocumentType = "legal_opinion"
)

// Field describes one input of a document template.
type Field struct {
	Name     string
	Label    string
	Required bool
}

// template couples the per-type instruction with its field schema.
type docTemplate struct {
	Title       string
	Instruction string
	Fields      []Field
}

var templates = map[DocumentType]docTemplate{
	DocDemandLetter: {
		Title:       "Extrajudicial demand letter",
		Instruction: "Draft a formal extrajudicial demand letter. State the claim, the amount owed, the legal basis and a payment deadline before judicial action.",
		Fields: []Field{
			{Name: "recipient", Label: "Recipient name", Required: true},
			{Name: "claim_summary", Label: "Claim summary", Required: true},
			{Name: "amount", Label: "Amount claimed", Required: false},
			{Name: "deadline_days", Label: "Days to comply", Required: false},
		},
	},
	DocComplaint: {
		Title:       "Civil complaint",
		Instruction: "Draft a civil complaint with parties, facts in numbered paragraphs, legal grounds, and the relief sought.",
		Fields: []Field{
			{Name: "plaintiff", Label: "Plaintiff", Required: true},
			{Name: "defendant", Label: "Defendant", Required: true},
			{Name: "facts", Label: "Statement of facts", Required: true},
			{Name: "relief", Label: "Relief sought", Required: true},
		},
	},
	DocAnswer: {
		Title:       "Answer to complaint",
		Instruction: "Draft an answer to a civil complaint, admitting or denying each allegation and raising the stated defenses.",
		Fields: []Field{
			{Name: "defendant", Label: "Defendant", Required: true},
			{Name: "allegations", Label: "Allegations to address", Required: true},
			{Name: "defenses", Label: "Defenses", Required: true},
		},
	},
	DocAppeal: {
		Title:       "Appellate brief",
		Instruction: "Draft an appellate brief challenging the cited ruling, with grounds for appeal and the requested disposition.",
		Fields: []Field{
			{Name: "ruling", Label: "Ruling under appeal", Required: true},
			{Name: "grounds", Label: "Grounds for appeal", Required: true},
		},
	},
	DocContract: {
		Title:       "Contract",
		Instruction: "Draft a contract with definitions, obligations of each party, term, termination, and dispute-resolution clauses.",
		Fields: []Field{
			{Name: "party_a", Label: "First party", Required: true},
			{Name: "party_b", Label: "Second party", Required: true},
			{Name: "subject", Label: "Subject matter", Required: true},
			{Name: "term", Label: "Term", Required: false},
		},
	},
	DocSettlement: {
		Title:       "Settlement agreement",
		Instruction: "Draft a settlement agreement resolving the dispute, with payment terms, releases and confidentiality.",
		Fields: []Field{
			{Name: "party_a", Label: "First party", Required: true},
			{Name: "party_b", Label: "Second party", Required: true},
			{Name: "dispute", Label: "Dispute description", Required: true},
			{Name: "settlement_terms", Label: "Settlement terms", Required: true},
		},
	},
	DocPowerOfAttorney: {
		Title:       "Power of attorney",
		Instruction: "Draft a power of attorney granting the stated powers from principal to agent.",
		Fields: []Field{
			{Name: "principal", Label: "Principal", Required: true},
			{Name: "agent", Label: "Agent", Required: true},
			{Name: "powers", Label: "Powers granted", Required: true},
		},
	},
	DocLegalOpinion: {
		Title:       "Legal opinion",
		Instruction: "Draft a legal opinion analyzing the question presented, the applicable law and a reasoned conclusion.",
		Fields: []Field{
			{Name: "question", Label: "Question presented", Required: true},
			{Name: "background", Label: "Background", Required: true},
		},
	},
}

// SupportedTypes lists the recognized document types.
func SupportedTypes() []DocumentType {
	out := make([]DocumentType, 0, len(templates))
	for t := range templates {
		out = append(out, t)
	}
	return out
}

// Request describes one drafting call.
type Request struct {
	DocumentType DocumentType      `json:"document_type"`
	FormData     map[string]string `json:"form_data"`
	CaseContext  string            `json:"case_context,omitempty"`
	// PreviousDraft and IterationInstruction turn the call into a revision
	// of an earlier draft instead of a fresh document.
	PreviousDraft        string `json:"previous_draft,omitempty"`
	IterationInstruction string `json:"iteration_instruction,omitempty"`
}

// Validate checks the document type against the fixed enum and the form
// data against the per-type field schema.
func (r *Request) Validate() error {
	tmpl, ok := templates[r.DocumentType]
	if !ok {
		return errors.New(errors.ErrCodeDraftTypeUnsupported,
			fmt.Sprintf("unsupported document type %q", r.DocumentType))
	}
	var missing []string
	for _, f := range tmpl.Fields {
		if !f.Required {
			continue
		}
		if strings.TrimSpace(r.FormData[f.Name]) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeDraftFieldsInvalid,
			"missing required fields: "+strings.Join(missing, ", "))
	}
	if r.IterationInstruction != "" && strings.TrimSpace(r.PreviousDraft) == "" {
		return errors.New(errors.ErrCodeDraftFieldsInvalid,
			"iteration instruction given without a previous draft")
	}
	return nil
}

// Result is a finished draft with its accounting.
type Result struct {
	Text       string `json:"text"`
	Model      string `json:"model"`
	Tokens     int    `json:"tokens"`
	DurationMS int64  `json:"duration_ms"`
}
