package dashboard

import (
	"strconv"

	"cropeda/adapters/charts"
	"cropeda/domain/dataset"
	"cropeda/domain/session"
)

// AppTitle heads every dashboard page
const AppTitle = "Crop and Fertile System"

// BlockKind identifies what a page block displays
type BlockKind string

const (
	BlockHeader   BlockKind = "header"
	BlockText     BlockKind = "text"
	BlockList     BlockKind = "list"
	BlockTable    BlockKind = "table"
	BlockChart    BlockKind = "chart"
	BlockControl  BlockKind = "control"
	BlockDownload BlockKind = "download"
	BlockError    BlockKind = "error"
)

// ControlKind identifies an input widget
type ControlKind string

const (
	ControlCheckbox ControlKind = "checkbox"
	ControlButton   ControlKind = "button"
	ControlSelect   ControlKind = "select"
)

// Control echoes a widget read during the pass, with the value it returned
type Control struct {
	Kind    ControlKind
	Key     string
	Label   string
	Options []string
	Value   string
	Checked bool
}

// TableData is a rendered grid of display strings
type TableData struct {
	Header []string
	Rows   [][]string
}

// Download is an export artifact offered to the user
type Download struct {
	Label    string
	Format   string
	FileName string
	MIMEType string
	Data     []byte
}

// Block is one element of a rendered page
type Block struct {
	Kind     BlockKind
	Title    string
	Text     string
	Items    []string
	Table    *TableData
	Chart    *charts.Chart
	Control  *Control
	Download *Download
}

// Page is the full output of one render pass
type Page struct {
	PassID  string
	Title   string
	Columns []string
	Views   []session.View
	Active  session.View
	Fatal   string
	Blocks  []Block
}

func newPage(active session.View) *Page {
	return &Page{Title: AppTitle, Views: session.Views, Active: active}
}

// FatalPage shows only the error that halted the session
func FatalPage(err error) *Page {
	return &Page{Title: AppTitle, Fatal: err.Error()}
}

func (p *Page) add(b Block) {
	p.Blocks = append(p.Blocks, b)
}

func (p *Page) header(text string) {
	p.add(Block{Kind: BlockHeader, Text: text})
}

func (p *Page) text(text string) {
	p.add(Block{Kind: BlockText, Text: text})
}

func (p *Page) errorf(err error) {
	p.add(Block{Kind: BlockError, Text: err.Error()})
}

func (p *Page) grid(title string, header []string, rows [][]string) {
	p.add(Block{Kind: BlockTable, Title: title, Table: &TableData{Header: header, Rows: rows}})
}

// frame adds t with a leading row position column starting at offset
func (p *Page) frame(title string, t *dataset.Table, offset int) {
	header := append([]string{""}, t.Names()...)
	rows := make([][]string, t.Rows())
	for i := range rows {
		rows[i] = append([]string{strconv.Itoa(offset + i)}, t.DisplayRow(i)...)
	}
	p.grid(title, header, rows)
}

func (p *Page) chart(c charts.Chart) {
	p.add(Block{Kind: BlockChart, Title: c.Title, Chart: &c})
}

// BlocksOf returns the blocks of one kind in page order
func (p *Page) BlocksOf(kind BlockKind) []Block {
	var out []Block
	for _, b := range p.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Downloads lists the export artifacts offered on the page
func (p *Page) Downloads() []*Download {
	var out []*Download
	for _, b := range p.Blocks {
		if b.Download != nil {
			out = append(out, b.Download)
		}
	}
	return out
}

// recorder passes control reads through and echoes each one onto the page
type recorder struct {
	controls session.Controls
	page     *Page
}

func (r *recorder) Checkbox(key, label string) bool {
	v := r.controls.Checkbox(key, label)
	r.page.add(Block{Kind: BlockControl, Control: &Control{Kind: ControlCheckbox, Key: key, Label: label, Checked: v}})
	return v
}

func (r *recorder) Button(key, label string) bool {
	v := r.controls.Button(key, label)
	r.page.add(Block{Kind: BlockControl, Control: &Control{Kind: ControlButton, Key: key, Label: label, Checked: v}})
	return v
}

func (r *recorder) Select(key, label string, options []string) string {
	v := r.controls.Select(key, label, options)
	r.page.add(Block{Kind: BlockControl, Control: &Control{Kind: ControlSelect, Key: key, Label: label, Options: options, Value: v}})
	return v
}
