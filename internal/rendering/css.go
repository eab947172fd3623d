package rendering

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/style"
)

// px formats a CSS pixel length.
func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// fontStack quotes a family name and strips characters that could escape the declaration.
func fontStack(family string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', ';', '{', '}', '<', '>', '\\':
			return -1
		}
		return r
	}, family)
	clean = strings.TrimSpace(clean)
	if clean == "" {
		clean = style.Defaults().FontFamily
	}
	return fmt.Sprintf(`"%s", "Helvetica Neue", Arial, sans-serif`, clean)
}

// Stylesheet emits the CSS shared by measurement and export. Every length that the estimator
// models comes from the same style and constants, so both paths agree on spacing.
func Stylesheet(st style.Resolved, g geometry.Geometry, c estimate.Constants) template.CSS {
	c = c.WithDefaults()
	var b strings.Builder
	rule := func(selector string, decls ...string) {
		b.WriteString(selector)
		b.WriteString("{")
		b.WriteString(strings.Join(decls, ";"))
		b.WriteString("}\n")
	}
	line := strconv.FormatFloat(st.LineSpacing, 'f', -1, 64)

	fmt.Fprintf(&b, "@page{size:%s %s;margin:0}\n", px(g.PageWidth), px(g.PageHeight))
	rule("*", "box-sizing:border-box")
	rule("html,body", "margin:0", "padding:0")
	rule("body",
		"font-family:"+fontStack(st.FontFamily),
		"font-size:"+px(st.BodySize),
		"line-height:"+line,
		"color:#1f2328",
		"-webkit-print-color-adjust:exact")

	rule(".page",
		"position:relative",
		"overflow:hidden",
		"width:"+px(g.PageWidth),
		"height:"+px(g.PageHeight),
		fmt.Sprintf("padding:%s %s %s %s", px(g.Margins.Top), px(g.Margins.Side), px(g.Margins.Bottom), px(g.Margins.Side)))
	rule("body.preview .page", "margin:0 auto 24px", "box-shadow:0 1px 4px rgba(0,0,0,.2)", "background:#fff")
	rule(".page-break", "break-after:page", "page-break-after:always", "height:0")
	rule(".measure-root", "width:"+px(g.ContentWidth))

	rule(".resume-header", "margin:0 0 "+px(st.SectionSpacing))
	rule(".resume-header.with-photo", "display:flex", "align-items:flex-start", "gap:"+px(c.ColumnGap))
	rule(".resume-header .photo",
		"width:"+px(c.PhotoSize), "height:"+px(c.PhotoSize),
		"object-fit:cover", "border-radius:50%", "flex:none")
	rule(".resume-header .name",
		"margin:0", "font-size:"+px(st.NameFontSize),
		"line-height:"+strconv.FormatFloat(c.NameLineFactor, 'f', -1, 64), "font-weight:700")
	rule(".resume-header .headline", "font-size:"+px(st.SubHeaderSize), "line-height:"+line)
	rule(".resume-header .contact", "font-size:"+px(st.BodySize), "line-height:"+line)

	rule(".section", "margin:0 0 "+px(st.SectionSpacing))
	rule(".section-title",
		"margin:0 0 "+px(c.HeaderGap),
		"font-size:"+px(st.SectionHeaderSize),
		"line-height:"+strconv.FormatFloat(c.HeaderLineFactor, 'f', -1, 64),
		"padding-bottom:"+px(c.HeaderRulePadding),
		"border-bottom:"+px(c.HeaderRuleWidth)+" solid currentColor",
		"font-weight:700")

	rule(".entry + .entry", "margin-top:"+px(st.EntrySpacing))
	rule(".entry.compact + .entry.compact", "margin-top:"+px(c.ListGap))
	justify := "space-between"
	if !st.AlignRight {
		justify = "flex-start"
	}
	rule(".entry-title",
		"display:flex", "justify-content:"+justify, "gap:8px",
		"font-size:"+px(st.SubHeaderSize), "line-height:"+line,
		"min-height:"+px(st.SubHeaderLineHeight()), "font-weight:600")
	rule(".entry-row",
		"display:flex", "justify-content:"+justify, "gap:8px",
		"min-height:"+px(st.BodyLineHeight()))
	rule(".entry .meta", "font-weight:400", "color:#57606a", "white-space:nowrap")
	rule(".entry-subtitle,.entry-line", "font-style:italic")
	rule(".entry-text p", "margin:0")
	rule(".bullets", "margin:0", "padding:0 0 0 "+px(c.BulletIndent))
	rule(".bullets li", "margin:0 0 "+px(c.BulletGap))

	rule(".columns", "display:flex", "align-items:flex-start", "gap:"+px(c.ColumnGap))
	rule(".main-column", "width:"+px(c.MainWidth(g.ContentWidth)), "flex:none")
	rule(".sidebar", "width:"+px(c.SidebarWidth(g.ContentWidth)), "flex:none")
	rule(".sidebar-item", "margin:0 0 "+px(c.ListGap))
	rule(".sidebar-item .label", "font-weight:600")
	rule(".template-modern .section-title", "letter-spacing:.04em")
	return template.CSS(b.String())
}
