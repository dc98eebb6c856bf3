package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// ContentType is the MIME type of a generated DOCX package.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	nsMain = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsDocR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	xmlHdr = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	bulletNumID = 1
)

type part struct {
	name string
	body func() (string, error)
}

// DOCX packages model as a Word document. On failure nothing is returned.
func DOCX(model Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := writePackage(&buf, model); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDOCX packages model and writes it to w. The package is assembled in
// memory first so w never sees a truncated archive from a packaging error.
func WriteDOCX(w io.Writer, model Model) error {
	data, err := DOCX(model)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errorutil.NewSerializationError(err)
	}
	return nil
}

func writePackage(w io.Writer, model Model) error {
	zw := zip.NewWriter(w)
	parts := []part{
		{"[Content_Types].xml", staticPart(contentTypesXML)},
		{"_rels/.rels", staticPart(packageRelsXML)},
		{"docProps/core.xml", func() (string, error) { return coreXML(model.Title) }},
		{"word/_rels/document.xml.rels", staticPart(documentRelsXML)},
		{"word/styles.xml", staticPart(stylesXML)},
		{"word/numbering.xml", staticPart(numberingXML)},
		{"word/document.xml", func() (string, error) { return documentXML(model) }},
	}
	for _, p := range parts {
		body, err := p.body()
		if err != nil {
			return errorutil.NewSerializationError(fmt.Errorf("%s: %w", p.name, err))
		}
		f, err := zw.Create(p.name)
		if err != nil {
			return errorutil.NewSerializationError(fmt.Errorf("create %s: %w", p.name, err))
		}
		if _, err := io.WriteString(f, body); err != nil {
			return errorutil.NewSerializationError(fmt.Errorf("write %s: %w", p.name, err))
		}
	}
	if err := zw.Close(); err != nil {
		return errorutil.NewSerializationError(err)
	}
	return nil
}

func staticPart(s string) func() (string, error) {
	return func() (string, error) { return s, nil }
}

func escape(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func documentXML(model Model) (string, error) {
	var b strings.Builder
	b.WriteString(xmlHdr)
	b.WriteString(`<w:document xmlns:w="` + nsMain + `" xmlns:r="` + nsDocR + `"><w:body>`)
	for _, blk := range model.Blocks {
		if err := writeBlock(&b, blk); err != nil {
			return "", err
		}
	}
	b.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>`)
	b.WriteString(`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>`)
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.String(), nil
}

func writeBlock(b *strings.Builder, blk Block) error {
	b.WriteString("<w:p>")
	switch blk.Kind {
	case Heading1, Heading2, Heading3:
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, styleID(blk.Kind))
	case Bullet:
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="ListParagraph"/><w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr></w:pPr>`,
			blk.Level, bulletNumID)
	case Paragraph:
	}
	if blk.Text != "" {
		text, err := escape(blk.Text)
		if err != nil {
			return err
		}
		b.WriteString(`<w:r><w:t xml:space="preserve">`)
		b.WriteString(text)
		b.WriteString(`</w:t></w:r>`)
	}
	b.WriteString("</w:p>")
	return nil
}

func styleID(k BlockKind) string {
	switch k {
	case Heading1:
		return "Heading1"
	case Heading2:
		return "Heading2"
	case Heading3:
		return "Heading3"
	default:
		return "Normal"
	}
}

func coreXML(title string) (string, error) {
	escaped, err := escape(title)
	if err != nil {
		return "", err
	}
	return xmlHdr +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escaped + `</dc:title><dc:creator>msp-dashboard</dc:creator>` +
		`</cp:coreProperties>`, nil
}

const contentTypesXML = xmlHdr +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xmlHdr +
	`<Relationships xmlns="` + nsRels + `">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

const documentRelsXML = xmlHdr +
	`<Relationships xmlns="` + nsRels + `">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>` +
	`</Relationships>`

const stylesXML = xmlHdr +
	`<w:styles xmlns:w="` + nsMain + `">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>` +
	`<w:pPrDefault><w:pPr><w:spacing w:after="120"/></w:pPr></w:pPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>` +
	`<w:pPr><w:keepNext/><w:spacing w:before="360" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>` +
	`<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>` +
	`<w:pPr><w:keepNext/><w:spacing w:before="200" w:after="80"/><w:outlineLvl w:val="2"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/><w:basedOn w:val="Normal"/><w:qFormat/>` +
	`<w:pPr><w:ind w:left="720"/></w:pPr></w:style>` +
	`</w:styles>`

const numberingXML = xmlHdr +
	`<w:numbering xmlns:w="` + nsMain + `">` +
	`<w:abstractNum w:abstractNumId="0"><w:multiLevelType w:val="hybridMultilevel"/>` +
	`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="•"/><w:lvlJc w:val="left"/>` +
	`<w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl>` +
	`</w:abstractNum>` +
	`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>` +
	`</w:numbering>`
