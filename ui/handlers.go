package ui

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"degview/domain/contrast"
	"degview/domain/deg"
	"degview/internal/errors"
	"degview/internal/jsonx"
	"degview/internal/session"
	"degview/internal/summary"
	"degview/internal/table"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
)

// contrastRow is one line of the detected-contrasts table.
type contrastRow struct {
	ID          string
	DisplayName string
	LogFCColumn string
	AdjPColumn  string
}

func contrastRows(info contrast.Info) []contrastRow {
	rows := make([]contrastRow, 0, len(info.IDs))
	for _, id := range info.IDs {
		roles := info.Roles[id]
		rows = append(rows, contrastRow{
			ID:          id,
			DisplayName: contrast.DisplayName(id),
			LogFCColumn: roles.LogFC,
			AdjPColumn:  roles.PadjColumn(),
		})
	}
	return rows
}

// handleExplore renders the upload form, preview, and detected contrasts.
func (a *App) handleExplore(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Active     string
		HasData    bool
		Filename   string
		Rows, Cols int

		PreviewColumns []string
		PreviewRows    [][]string

		Contrasts   []contrastRow
		NoContrasts bool

		GeneColumn string
		AllColumns []string

		Separators             []string
		MinPreview, MaxPreview int
		DefaultPreview         int

		Error string
	}{
		Active:         "explore",
		Separators:     table.SeparatorChoices,
		MinPreview:     a.cfg.Upload.MinPreviewRows,
		MaxPreview:     a.cfg.Upload.MaxPreviewRows,
		DefaultPreview: a.cfg.Upload.DefaultPreview,
		Error:          r.URL.Query().Get("error"),
	}

	if state, ok := a.currentSession(r); ok {
		data.HasData = true
		data.Filename = state.Filename
		data.Rows = state.Table.NumRows()
		data.Cols = state.Table.NumCols()
		data.PreviewColumns = state.Preview.ColumnNames()
		for i := 0; i < state.Preview.NumRows(); i++ {
			data.PreviewRows = append(data.PreviewRows, state.Preview.Row(i))
		}
		data.Contrasts = contrastRows(state.Contrast)
		data.NoContrasts = state.Contrast.Empty()
		data.GeneColumn = state.GeneColumn
		data.AllColumns = state.Table.ColumnNames()
	}

	a.renderTemplate(w, "explore.html", data)
}

// handleUpload loads an uploaded file into a new session. Load failures
// redirect back with the error message; the previous session cookie stays
// valid so prior state is retained.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.Upload.MaxBytes)
	if err := r.ParseMultipartForm(a.cfg.Upload.MaxBytes); err != nil {
		redirectWithError(w, r, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		redirectWithError(w, r, "no file selected")
		return
	}
	defer file.Close()

	if !table.HasAcceptedExtension(header.Filename) {
		redirectWithError(w, r, fmt.Sprintf("unsupported file extension: %s", header.Filename))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		redirectWithError(w, r, "failed to read upload")
		return
	}

	separator := r.FormValue("separator")
	if separator == "" {
		separator = table.SepAuto
	}
	previewRows := a.clampPreviewRows(r.FormValue("preview_rows"))

	full, preview, err := a.cache.Load(content, header.Filename, separator, previewRows)
	if err != nil {
		log.Printf("[UI] Load failed for %s: %v", header.Filename, err)
		redirectWithError(w, r, err.Error())
		return
	}

	state := a.store.Create(header.Filename, full, preview)
	setSessionCookie(w, state.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// clampPreviewRows parses the preview-rows form value, falling back to the
// configured default and clamping into the allowed range.
func (a *App) clampPreviewRows(raw string) int {
	rows := a.cfg.Upload.DefaultPreview
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			rows = n
		}
	}
	if rows < a.cfg.Upload.MinPreviewRows {
		rows = a.cfg.Upload.MinPreviewRows
	}
	if rows > a.cfg.Upload.MaxPreviewRows {
		rows = a.cfg.Upload.MaxPreviewRows
	}
	return rows
}

// handleGeneColumn records an explicit gene-column choice.
func (a *App) handleGeneColumn(w http.ResponseWriter, r *http.Request) {
	state, ok := a.currentSession(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	column := r.FormValue("column")
	if column == "" || !state.Table.HasColumn(column) {
		redirectWithError(w, r, "select an existing column")
		return
	}

	a.store.SetGeneColumn(state.ID, column)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// scatterPoint is one chart datum. X and Y are always finite; the tooltip
// fields may be NaN and serialize as null.
type scatterPoint struct {
	Gene    string      `json:"gene"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Cat     string      `json:"cat"`
	LogFC   jsonx.Float `json:"logfc"`
	AveExpr jsonx.Float `json:"aveexpr"`
	Padj    jsonx.Float `json:"padj"`
}

// handleVolcano renders the volcano and MA scatter views.
func (a *App) handleVolcano(w http.ResponseWriter, r *http.Request) {
	state, view, ok := a.contrastView(w, r, "volcano")
	if !ok {
		return
	}

	built, err := deg.Build(state.Table, state.GeneColumn, view.Selected, state.Contrast)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	classified := deg.ClassifyAll(built, view.Thresholds)

	volcano := make([]scatterPoint, 0, len(classified))
	ma := make([]scatterPoint, 0, len(classified))
	for _, row := range classified {
		point := scatterPoint{
			Gene:    row.Gene,
			Cat:     string(row.Category),
			LogFC:   jsonx.Float(row.LogFC),
			AveExpr: jsonx.Float(row.AveExpr),
			Padj:    jsonx.Float(row.Padj),
		}
		if !isNaN(row.LogFC) && !isNaN(row.NegLog10Padj) {
			p := point
			p.X, p.Y = row.LogFC, row.NegLog10Padj
			volcano = append(volcano, p)
		}
		if !isNaN(row.AveExpr) && !isNaN(row.LogFC) {
			p := point
			p.X, p.Y = row.AveExpr, row.LogFC
			ma = append(ma, p)
		}
	}

	data := struct {
		contrastViewData
		VolcanoJSON template.JS
		MAJSON      template.JS
		Counts      map[deg.Category]int
	}{
		contrastViewData: view,
		VolcanoJSON:      marshalJS(volcano),
		MAJSON:           marshalJS(ma),
		Counts:           deg.CountByCategory(classified),
	}
	a.renderTemplate(w, "volcano.html", data)
}

// handleDegs renders the filtered DEG table with its summary and download
// link. HTMX requests get just the table fragment.
func (a *App) handleDegs(w http.ResponseWriter, r *http.Request) {
	state, view, ok := a.contrastView(w, r, "degs")
	if !ok {
		return
	}

	built, err := deg.Build(state.Table, state.GeneColumn, view.Selected, state.Contrast)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filtered := deg.FilterClassified(built, view.Thresholds)
	contrastSummary := summary.Summarize(view.Selected, built, view.Thresholds)

	query := url.Values{}
	query.Set("contrast", view.Selected)
	query.Set("thr_logfc", strconv.FormatFloat(view.Thresholds.LogFC, 'g', -1, 64))
	query.Set("thr_padj", strconv.FormatFloat(view.Thresholds.Padj, 'g', -1, 64))
	query.Set("filtered", "1")

	data := struct {
		contrastViewData
		Filtered    []deg.ClassifiedRow
		Count       int
		Summary     summary.ContrastSummary
		DownloadURL string
	}{
		contrastViewData: view,
		Filtered:         filtered,
		Count:            len(filtered),
		Summary:          contrastSummary,
		DownloadURL:      "/degs/download?" + query.Encode(),
	}

	if isHTMX(r) {
		a.renderTemplate(w, "deg_table_fragment.html", data)
		return
	}
	a.renderTemplate(w, "degs.html", data)
}

// handleDegsDownload streams the CSV export of the current DEG view.
func (a *App) handleDegsDownload(w http.ResponseWriter, r *http.Request) {
	state, view, ok := a.contrastView(w, r, "degs")
	if !ok {
		return
	}

	built, err := deg.Build(state.Table, state.GeneColumn, view.Selected, state.Contrast)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filtered := r.URL.Query().Get("filtered") == "1"
	filename := "DEGs.csv"
	if filtered {
		filename = "DEGs_filtrados.csv"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "text/csv")

	if filtered {
		err = deg.WriteClassifiedCSV(w, deg.FilterClassified(built, view.Thresholds))
	} else {
		err = deg.WriteCSV(w, built)
	}
	if err != nil {
		log.Printf("[UI] CSV export failed: %v", err)
	}
}

// handleGene renders the per-gene cross-contrast table and bar chart.
func (a *App) handleGene(w http.ResponseWriter, r *http.Request) {
	state, ok := a.currentSession(r)
	if !ok {
		a.renderTemplate(w, "gene.html", geneViewData{Active: "gene"})
		return
	}

	data := geneViewData{
		Active:      "gene",
		HasData:     true,
		NoContrasts: state.Contrast.Empty(),
		NeedGeneCol: !state.HasGeneColumn(),
	}
	if data.NoContrasts || data.NeedGeneCol {
		a.renderTemplate(w, "gene.html", data)
		return
	}

	data.Genes = state.Table.DistinctValues(state.GeneColumn)
	data.Selected = r.URL.Query().Get("gene")
	if data.Selected == "" && len(data.Genes) > 0 {
		data.Selected = data.Genes[0]
	}

	if data.Selected != "" {
		rows, err := deg.GeneAcrossContrasts(state.Table, state.GeneColumn, data.Selected, state.Contrast)
		if err != nil {
			if errors.GetCode(err) != errors.CodeNotFound {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		} else {
			data.Rows = rows
			data.ChartJSON = marshalJS(geneChartPoints(deg.SortByLogFCDesc(rows)))
		}
	}

	a.renderTemplate(w, "gene.html", data)
}

// geneChartPoint is the bar-chart datum for one contrast.
type geneChartPoint struct {
	Contrast string      `json:"contrast"`
	LogFC    jsonx.Float `json:"logfc"`
	Padj     jsonx.Float `json:"padj"`
}

func geneChartPoints(rows []deg.GeneContrastRow) []geneChartPoint {
	points := make([]geneChartPoint, len(rows))
	for i, r := range rows {
		points[i] = geneChartPoint{
			Contrast: r.DisplayName,
			LogFC:    jsonx.Float(r.LogFC),
			Padj:     jsonx.Float(r.Padj),
		}
	}
	return points
}

type geneViewData struct {
	Active      string
	HasData     bool
	NoContrasts bool
	NeedGeneCol bool
	Genes       []string
	Selected    string
	Rows        []deg.GeneContrastRow
	ChartJSON   template.JS
}

// handleHelp renders the embedded Markdown usage notes.
func (a *App) handleHelp(w http.ResponseWriter, r *http.Request) {
	source, err := embeddedFiles.ReadFile("help.md")
	if err != nil {
		http.Error(w, "help unavailable", http.StatusInternalServerError)
		return
	}

	p := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	rendered := markdown.ToHTML(source, p, renderer)

	data := struct {
		Active string
		Body   template.HTML
	}{
		Active: "help",
		Body:   template.HTML(rendered),
	}
	a.renderTemplate(w, "help.html", data)
}

// contrastViewData is the shared state of the contrast-driven views.
type contrastViewData struct {
	Active      string
	HasData     bool
	NoContrasts bool
	NeedGeneCol bool
	Contrasts   []contrastRow
	Selected    string
	DisplayName string
	Thresholds  deg.Thresholds
}

// contrastView resolves session, contrast selection, and thresholds for the
// volcano/DEG views, rendering the placeholder page itself when the view
// cannot proceed yet.
func (a *App) contrastView(w http.ResponseWriter, r *http.Request, active string) (*session.State, contrastViewData, bool) {
	view := contrastViewData{Active: active, Thresholds: parseThresholds(r)}

	state, ok := a.currentSession(r)
	if !ok {
		a.renderTemplate(w, active+".html", view)
		return nil, view, false
	}

	view.HasData = true
	view.NoContrasts = state.Contrast.Empty()
	view.NeedGeneCol = !state.HasGeneColumn()
	view.Contrasts = contrastRows(state.Contrast)

	if view.NoContrasts || view.NeedGeneCol {
		a.renderTemplate(w, active+".html", view)
		return nil, view, false
	}

	view.Selected = r.URL.Query().Get("contrast")
	if _, ok := state.Contrast.Get(view.Selected); !ok {
		view.Selected = state.Contrast.IDs[0]
	}
	view.DisplayName = contrast.DisplayName(view.Selected)
	return state, view, true
}

// parseThresholds reads the two threshold controls, clamping them into the
// control ranges and falling back to the defaults.
func parseThresholds(r *http.Request) deg.Thresholds {
	thr := deg.DefaultThresholds()
	if v := r.URL.Query().Get("thr_logfc"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			thr.LogFC = clamp(f, 0, 10)
		}
	}
	if v := r.URL.Query().Get("thr_padj"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			thr.Padj = clamp(f, 0, 1)
		}
	}
	return thr
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isNaN(v float64) bool {
	return v != v
}

func marshalJS(v interface{}) template.JS {
	encoded, err := json.Marshal(v)
	if err != nil {
		log.Printf("[UI] Chart data marshal failed: %v", err)
		return template.JS("[]")
	}
	return template.JS(encoded)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(message), http.StatusSeeOther)
}
