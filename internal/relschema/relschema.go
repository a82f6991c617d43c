// Package relschema holds the compile-time static tables the OOXML format
// fixes: namespace URIs, content-type strings, and schema child-order
// lists, each keyed by a short name. Per the design notes, these come from
// a table, not from files.
package relschema

// Namespace URIs, keyed by short name.
const (
	NSSpreadsheetML    = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	NSRelationships    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSPackageRels      = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSContentTypes     = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSCoreProperties   = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	NSDublinCore       = "http://purl.org/dc/elements/1.1/"
	NSDublinCoreTerms  = "http://purl.org/dc/terms/"
	NSDublinCoreMIType = "http://purl.org/dc/dcmitype/"
	NSXSI              = "http://www.w3.org/2001/XMLSchema-instance"
	NSExtendedProps    = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	NSVTypes           = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	NSDrawingML        = "http://schemas.openxmlformats.org/drawingml/2006/main"
)

// Relationship type URIs, keyed by short name.
const (
	RelTypeOfficeDocument    = NSRelationships + "/officeDocument"
	RelTypeWorksheet         = NSRelationships + "/worksheet"
	RelTypeStyles            = NSRelationships + "/styles"
	RelTypeSharedStrings     = NSRelationships + "/sharedStrings"
	RelTypeCalcChain         = NSRelationships + "/calcChain"
	RelTypeTheme             = NSRelationships + "/theme"
	RelTypeCoreProperties    = NSRelationships + "/metadata/core-properties"
	RelTypeExtendedProps     = NSRelationships + "/extended-properties"
)

// Content-type strings, keyed by short name.
const (
	CTWorkbook       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	CTWorksheet      = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	CTStyles         = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	CTSharedStrings  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	CTCalcChain      = "application/vnd.openxmlformats-officedocument.spreadsheetml.calcChain+xml"
	CTTheme          = "application/vnd.openxmlformats-officedocument.theme+xml"
	CTCoreProperties = "application/vnd.openxmlformats-package.core-properties+xml"
	CTExtendedProps  = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	CTRelationships  = "application/vnd.openxmlformats-package.relationships+xml"
	CTXML            = "application/xml"
)

// DefaultExtensionContentTypes maps a bare extension (no leading dot) to
// its Default content-type entry, for [Content_Types].xml.
var DefaultExtensionContentTypes = map[string]string{
	"rels": CTRelationships,
	"xml":  CTXML,
}

// Schema child-order tables: the order a part's root element's children
// must appear in, per ECMA-376. Tags absent from a list keep their
// relative position at the end when reordered.
var (
	WorkbookOrder = []string{
		"fileVersion", "fileSharing", "workbookPr", "workbookProtection",
		"bookViews", "sheets", "functionGroups", "externalReferences",
		"definedNames", "calcPr", "oleSize", "customWorkbookViews",
		"pivotCaches", "smartTagPr", "smartTagTypes", "webPublishing",
		"fileRecoveryPr", "webPublishObjects", "extLst",
	}

	WorksheetOrder = []string{
		"sheetPr", "dimension", "sheetViews", "sheetFormatPr", "cols",
		"sheetData", "sheetCalcPr", "sheetProtection", "protectedRanges",
		"scenarios", "autoFilter", "sortState", "dataConsolidate",
		"customSheetViews", "mergeCells", "phoneticPr", "conditionalFormatting",
		"dataValidations", "hyperlinks", "printOptions", "pageMargins",
		"pageSetup", "headerFooter", "rowBreaks", "colBreaks", "customProperties",
		"cellWatches", "ignoredErrors", "smartTags", "drawing",
		"legacyDrawing", "legacyDrawingHF", "picture", "oleObjects",
		"controls", "webPublishItems", "tableParts", "extLst",
	}

	StylesOrder = []string{
		"numFmts", "fonts", "fills", "borders", "cellStyleXfs", "cellXfs",
		"cellStyles", "dxfs", "tableStyles", "colors", "extLst",
	}

	ContentTypesOrder = []string{"Default", "Override"}

	RelationshipsOrder = []string{"Relationship"}
)
