package descriptions

import "sort"

// Tool names exposed by the identity server.
const (
	ExtractPersonsTool     = "identity_extract_persons"
	ExtractEntitiesTool    = "identity_extract_entities"
	CompareReferenceTool   = "identity_compare_reference"
	DetectTextTool         = "identity_detect_text"
	ValidateIdentifierTool = "identity_validate_identifier"
	ListDocumentsTool      = "identity_list_documents"
	ValidateDocumentTool   = "identity_validate_document"
	ServerInfoTool         = "identity_server_info"
)

// Tool descriptions with practical examples and use cases

const (
	// Extraction Tools
	ExtractPersonsDescription = `Identify every person and company in an Argentine legal document together with their identifiers.

**When to use:** Need the parties of a lawsuit, contract or administrative filing: who appears in the document and which DNI, CUIL, CUIT, CUIF or matrícula belongs to each of them.

**Why it's useful:** Combines label-anchored identifier extraction, mod-11 checksum validation and contextual name detection, then groups each name with the identifiers that follow it. Companies named right before their CUIT are recovered too.

**Examples:**
• Parties of a claim: "Who are the plaintiffs and defendants in demanda-garcia.pdf?"
• KYC check: "List every CUIT in contrato-locacion.pdf and the company it belongs to"
• Data quality: "Which identifiers in oficio-2024.pdf fail their checksum?"

**Common workflows:**
1. Party Discovery: identity_list_documents → identity_extract_persons → review conflicts
2. Validation: identity_extract_persons → inspect identificadores_invalidos → identity_validate_identifier
3. Verification: identity_extract_persons → identity_compare_reference against the case file

**Best practices:** Records without a name carry "nombre": null; a person with two different values of one kind lists them under "conflictos" instead of dropping one.`

	ExtractEntitiesDescription = `Extract only the requested kinds of entities (names, DNI, CUIL, CUIT, CUIF, matrícula) from a document.

**When to use:** Only some data matters, for example just the CUITs of an invoice dispute or just the names of a notification.

**Why it's useful:** Returns a compact mapping from each requested kind to its entries with surrounding context, plus a per-kind count. Kinds that were not requested are omitted entirely.

**Examples:**
• Tax IDs only: entities=["cuit"] on factura-reclamo.pdf
• Names and DNI: entities="nombre, dni" on cedula-notificacion.pdf
• Professional registrations: entities=["matricula"] on escrito-abogado.pdf

**Common workflows:**
1. Targeted Extraction: identity_extract_entities → feed the lists to downstream systems
2. Spot Check: identity_extract_entities with ["cuil"] → identity_validate_identifier on suspicious values

**Best practices:** Accepts a list, a JSON array string or a comma-separated string; "nombres" is accepted for "nombre". Unknown kinds are rejected with the list of valid ones.`

	CompareReferenceDescription = `Compare reference data (the expected parties and identifiers) against what a document actually contains.

**When to use:** Verifying that a document matches the case file, a client record or a previous extraction.

**Why it's useful:** Every reference field gets the best matching value in the document, a 0-100 similarity score and a fuzzy category (baja, media, alta, exacta). Names tolerate reordering, missing diacritics and typos; identifiers are compared digit by digit.

**Examples:**
• Case file check: reference={"actor": {"nombre": "Juan Carlos García", "dni": "12.345.678"}}
• Plain text reference: reference="Nombre: María Fernández\nCUIL: 27-23456789-3"
• Stored reference: reference_path=expedientes/ref-1234.json

**Common workflows:**
1. Intake Verification: identity_compare_reference → flag fields below "alta"
2. Reconciliation: identity_extract_persons → edit reference → identity_compare_reference

**Best practices:** Nested JSON is flattened into "key - subkey" fields; field kinds are inferred from the key names, so use keys like "nombre", "dni" or "cuit" when possible.`

	DetectTextDescription = `Run the identity extraction on raw text instead of a file.

**When to use:** The text is already at hand: pasted from an email, produced by an OCR step, or copied from a web form.

**Why it's useful:** Same pipeline and output shape as the file tools, without touching the document directory.

**Examples:**
• Pasted paragraph: "Detect people in: ...el Sr. PÉREZ JUAN, DNI 23.456.789..."
• OCR output: run identity_detect_text on the text produced by an external OCR tool
• Selective: pass entities=["cuit"] to receive the compact per-kind report

**Common workflows:**
1. Scanned Documents: identity_extract_persons fails with SCANNED_DOCUMENT → OCR elsewhere → identity_detect_text
2. Quick Check: identity_detect_text → identity_validate_identifier

**Best practices:** Without "entities" the full person report is returned; with it the selective report.`

	// Utility Tools
	ValidateIdentifierDescription = `Check a single identifier value against the rules of its kind.

**When to use:** Need to know whether a DNI, CUIL, CUIT, CUIF or matrícula is well formed, and why not.

**Why it's useful:** Applies length, prefix, charset and the mod-11 check digit used by CUIL and CUIT; separators are ignored.

**Examples:**
• "Is CUIT 30-12345678-1 valid?"
• "Check DNI 12.345.678"
• "Why does CUIL 20-12345678-1 fail?" → motivo: checksum

**Best practices:** The reason is one of length, prefix, checksum or charset, with a readable message.`

	ListDocumentsDescription = `List the documents available in the configured document directory.

**When to use:** Starting a session, or looking for a specific file by a part of its name.

**Why it's useful:** Only files the server can read (PDF, text and JSON references under the size limit) are listed, with size and modification time.

**Examples:**
• All documents: identity_list_documents
• By name: query="garcia"
• A subfolder: directory="expedientes/2024"

**Best practices:** Paths returned here can be passed directly to the extraction tools.`

	ValidateDocumentDescription = `Check that a document can be read before extracting from it.

**When to use:** A file was just added to the document directory, or an extraction failed and you need to know whether the file itself is the problem.

**Why it's useful:** Confirms the path is inside the document directory, the file type and size are accepted and, for PDFs, that the structure can be read. Reports the page count and any structural warning without extracting text.

**Examples:**
• Before a batch: "Are all files in expedientes/2024 readable?"
• After an error: "Why did demanda-garcia.pdf fail?"

**Common workflows:**
1. Intake: identity_list_documents → identity_validate_document → identity_extract_persons
2. Troubleshooting: identity_extract_persons fails with UNREADABLE_DOCUMENT → identity_validate_document

**Best practices:** A valid PDF can still be a scan without text; that is only detected when extracting.`

	ServerInfoDescription = `Get server status, configuration and the available identity tools.

**When to use:** Starting work with the server or troubleshooting: checks the document directory, limits, whether the NER fallback is enabled and the active score thresholds.

**Why it's useful:** Shows what the server will do before running an extraction.

**Best practices:** Run first in a new session.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ExtractPersonsTool:     ExtractPersonsDescription,
	ExtractEntitiesTool:    ExtractEntitiesDescription,
	CompareReferenceTool:   CompareReferenceDescription,
	DetectTextTool:         DetectTextDescription,
	ValidateIdentifierTool: ValidateIdentifierDescription,
	ListDocumentsTool:      ListDocumentsDescription,
	ValidateDocumentTool:   ValidateDocumentDescription,
	ServerInfoTool:         ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in lexical order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
