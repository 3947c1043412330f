package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/folio/dsl"
)

const sampleProfile = `
profile Invoices v1 {
  meta {
    title: "Open invoices"
    keywords: [
      "finance"
      "monthly"
    ]
  }

  page A4 landscape margin 10mm 12mm {
    cell-margin: 1.5mm
    max-row-height: 60mm
    repeat-header: false
  }

  style {
    border 0.3mm #0F62FE
    header-font "builtin:gobold" size 10pt color #000
    content-font size 9pt line-height 1.3x
  }

  // running footer
  footer {
    title: "Invoices ${period}"
    locale: "de"
  }

  columns {
    column 3 {
      title: "Customer"
      field: customer.name
    }
    column 1 { title: "Total"; field: total }
    column 0 {
      title: "Internal id"
      field: id
    }
  }
}
`

func TestParseProfile(t *testing.T) {
	doc, err := dsl.ParseString(sampleProfile)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Invoices" || doc.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Version)
	}

	kinds := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if got := strings.Join(kinds, ","); got != "meta,page,style,footer,columns" {
		t.Fatalf("unexpected sections: %s", got)
	}

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || string(*title.Value.String) != "Open invoices" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected keywords array assignment")
	}

	page := doc.Sections[1].Page
	if page.Spec.Size != "A4" {
		t.Fatalf("expected page size A4, got %s", page.Spec.Size)
	}
	if got := tokensToString(page.Spec.Params); got != "landscape margin 10mm 12mm" {
		t.Fatalf("unexpected page params: %s", got)
	}
	if len(page.Block.Statements) != 3 {
		t.Fatalf("expected 3 page assignments, got %d", len(page.Block.Statements))
	}
	repeat := page.Block.Statements[2].Assignment
	if repeat == nil || repeat.Key != "repeat-header" || repeat.Value.Expr == nil {
		t.Fatalf("unexpected repeat-header assignment: %+v", page.Block.Statements[2])
	}

	style := doc.Sections[2].Style
	border := style.Block.Statements[0].Command
	if border == nil || border.Name != "border" || len(border.Args) != 2 {
		t.Fatalf("unexpected border command: %+v", style.Block.Statements[0])
	}
	if border.Args[1].Type != "Color" || border.Args[1].Value != "#0F62FE" {
		t.Fatalf("six digit colors must lex as one token: %+v", border.Args[1])
	}
	header := style.Block.Statements[1].Command
	if header == nil || header.Name != "header-font" || header.Args[0].Value != "builtin:gobold" {
		t.Fatalf("unexpected header-font command: %+v", header)
	}
	if header.Args[4].Value != "#000" {
		t.Fatalf("short color lost: %+v", header.Args[4])
	}

	footer := doc.Sections[3].Footer
	if got := string(*footer.Block.Statements[0].Assignment.Value.String); !strings.Contains(got, "${period}") {
		t.Fatalf("expected interpolation in footer title, got %s", got)
	}

	cols := doc.Sections[4].Columns.Block.Statements
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	first := cols[0].Command
	if first == nil || first.Name != "column" || first.Args[0].Value != "3" {
		t.Fatalf("unexpected column command: %+v", cols[0])
	}
	field := first.Block.Statements[1].Assignment
	if field == nil || field.Value.Expr == nil {
		t.Fatalf("field assignment should capture expression, got %+v", first.Block.Statements[1])
	}
	if got := tokensToString(field.Value.Expr.Parts); got != "customer . name" {
		t.Fatalf("unexpected expression tokens: %s", got)
	}
	inline := cols[1].Command.Block.Statements
	if len(inline) != 2 || inline[1].Assignment.Key != "field" {
		t.Fatalf("inline column body not parsed: %+v", inline)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	if _, err := dsl.ParseString("profile X v1 {\n  resources { }\n}\n"); err == nil {
		t.Fatalf("unknown section should fail to parse")
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
