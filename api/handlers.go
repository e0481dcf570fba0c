package api

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"degview/domain/contrast"
	"degview/domain/deg"
	"degview/internal/errors"
	"degview/internal/session"
	"degview/internal/summary"
	"degview/internal/table"

	"github.com/gin-gonic/gin"
)

// handleUpload accepts a multipart dataset upload, loads it, and creates a
// session. A failed load leaves existing sessions untouched.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, errors.InvalidInput("missing file field"))
		return
	}

	if !table.HasAcceptedExtension(fileHeader.Filename) {
		respondError(c, errors.InvalidInput(
			fmt.Sprintf("unsupported file extension: %s", fileHeader.Filename)))
		return
	}
	if fileHeader.Size > s.cfg.Upload.MaxBytes {
		respondError(c, errors.InvalidInput(
			fmt.Sprintf("file exceeds the %d byte upload limit", s.cfg.Upload.MaxBytes)))
		return
	}

	separator := c.DefaultPostForm("separator", table.SepAuto)
	previewRows := s.parsePreviewRows(c.DefaultPostForm("preview_rows", ""))

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, s.cfg.Upload.MaxBytes+1))
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to read upload"))
		return
	}
	if int64(len(content)) > s.cfg.Upload.MaxBytes {
		respondError(c, errors.InvalidInput("file exceeds the upload limit"))
		return
	}

	full, preview, err := s.cache.Load(content, fileHeader.Filename, separator, previewRows)
	if err != nil {
		log.Printf("[API] Load failed for %s: %v", fileHeader.Filename, err)
		respondError(c, err)
		return
	}

	state := s.store.Create(fileHeader.Filename, full, preview)
	c.JSON(http.StatusCreated, sessionSummary(state))
}

func (s *Server) handleSummary(c *gin.Context) {
	state, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionSummary(state))
}

func (s *Server) handleDelete(c *gin.Context) {
	s.store.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePreview(c *gin.Context) {
	state, ok := s.session(c)
	if !ok {
		return
	}

	preview := state.Preview
	rows := make([][]string, preview.NumRows())
	for i := range rows {
		rows[i] = preview.Row(i)
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": preview.ColumnNames(),
		"rows":    rows,
	})
}

func (s *Server) handleContrasts(c *gin.Context) {
	state, ok := s.session(c)
	if !ok {
		return
	}

	type contrastEntry struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		LogFC       string `json:"logfc_column"`
		AdjP        string `json:"adjp_column"`
	}

	entries := make([]contrastEntry, 0, len(state.Contrast.IDs))
	for _, id := range state.Contrast.IDs {
		roles := state.Contrast.Roles[id]
		entries = append(entries, contrastEntry{
			ID:          id,
			DisplayName: contrast.DisplayName(id),
			LogFC:       roles.LogFC,
			AdjP:        roles.PadjColumn(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"contrasts": entries, "count": len(entries)})
}

func (s *Server) handleSetGeneColumn(c *gin.Context) {
	state, ok := s.session(c)
	if !ok {
		return
	}

	var body struct {
		Column string `json:"column" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.InvalidInput("column is required"))
		return
	}
	if !state.Table.HasColumn(body.Column) {
		respondError(c, errors.InvalidInput(
			fmt.Sprintf("column %q does not exist", body.Column)))
		return
	}

	s.store.SetGeneColumn(state.ID, body.Column)
	c.JSON(http.StatusOK, gin.H{"gene_column": body.Column})
}

func (s *Server) handleDeg(c *gin.Context) {
	state, built, thr, ok := s.builtDeg(c)
	if !ok {
		return
	}

	contrastID := c.Param("contrast")
	contrastSummary := summary.Summarize(contrastID, built, thr)

	if c.Query("filtered") == "1" {
		rows := deg.FilterClassified(built, thr)
		c.JSON(http.StatusOK, gin.H{
			"contrast":    contrastID,
			"thresholds":  thr,
			"rows":        degRowsJSON(rows),
			"significant": len(rows),
			"summary":     contrastSummary,
			"gene_column": state.GeneColumn,
		})
		return
	}

	rows := deg.ClassifyAll(built, thr)
	c.JSON(http.StatusOK, gin.H{
		"contrast":    contrastID,
		"thresholds":  thr,
		"rows":        degRowsJSON(rows),
		"counts":      deg.CountByCategory(rows),
		"summary":     contrastSummary,
		"gene_column": state.GeneColumn,
	})
}

func (s *Server) handleDegCSV(c *gin.Context) {
	_, built, thr, ok := s.builtDeg(c)
	if !ok {
		return
	}

	filtered := c.Query("filtered") == "1"
	filename := "DEGs.csv"
	if filtered {
		filename = "DEGs_filtered.csv"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv")

	var err error
	if filtered {
		err = deg.WriteClassifiedCSV(c.Writer, deg.FilterClassified(built, thr))
	} else {
		err = deg.WriteCSV(c.Writer, built)
	}
	if err != nil {
		log.Printf("[API] CSV export failed: %v", err)
	}
}

func (s *Server) handleGenes(c *gin.Context) {
	state, ok := s.session(c)
	if !ok {
		return
	}
	if !state.HasGeneColumn() {
		respondError(c, errors.InvalidInput("no gene column selected"))
		return
	}

	genes := state.Table.DistinctValues(state.GeneColumn)
	c.JSON(http.StatusOK, gin.H{
		"gene_column": state.GeneColumn,
		"genes":       genes,
		"count":       len(genes),
	})
}

func (s *Server) handleGeneDetail(c *gin.Context) {
	state, ok := s.session(c)
	if !ok {
		return
	}
	if !state.HasGeneColumn() {
		respondError(c, errors.InvalidInput("no gene column selected"))
		return
	}

	rows, err := deg.GeneAcrossContrasts(state.Table, state.GeneColumn, c.Param("gene"), state.Contrast)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gene":  c.Param("gene"),
		"rows":  geneRowsJSON(rows),
		"chart": geneRowsJSON(deg.SortByLogFCDesc(rows)),
	})
}

// session resolves the dataset session from the path, writing the error
// response itself on failure.
func (s *Server) session(c *gin.Context) (*session.State, bool) {
	state, ok := s.store.Get(c.Param("id"))
	if !ok {
		respondError(c, errors.NotFound("dataset session"))
		return nil, false
	}
	return state, true
}

// builtDeg resolves the session, thresholds, and derived table for the
// contrast in the path.
func (s *Server) builtDeg(c *gin.Context) (*session.State, deg.Table, deg.Thresholds, bool) {
	state, ok := s.session(c)
	if !ok {
		return nil, nil, deg.Thresholds{}, false
	}
	if !state.HasGeneColumn() {
		respondError(c, errors.InvalidInput("no gene column selected"))
		return nil, nil, deg.Thresholds{}, false
	}

	thr := deg.DefaultThresholds()
	if v := c.Query("thr_logfc"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			thr.LogFC = f
		}
	}
	if v := c.Query("thr_padj"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			thr.Padj = f
		}
	}
	if !thr.Valid() {
		respondError(c, errors.InvalidInput("thresholds out of range"))
		return nil, nil, deg.Thresholds{}, false
	}

	built, err := deg.Build(state.Table, state.GeneColumn, c.Param("contrast"), state.Contrast)
	if err != nil {
		respondError(c, err)
		return nil, nil, deg.Thresholds{}, false
	}
	return state, built, thr, true
}

func (s *Server) parsePreviewRows(raw string) int {
	rows := s.cfg.Upload.DefaultPreview
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			rows = n
		}
	}
	if rows < s.cfg.Upload.MinPreviewRows {
		rows = s.cfg.Upload.MinPreviewRows
	}
	if rows > s.cfg.Upload.MaxPreviewRows {
		rows = s.cfg.Upload.MaxPreviewRows
	}
	return rows
}

func sessionSummary(state *session.State) gin.H {
	return gin.H{
		"session_id":  state.ID,
		"filename":    state.Filename,
		"rows":        state.Table.NumRows(),
		"cols":        state.Table.NumCols(),
		"contrasts":   len(state.Contrast.IDs),
		"gene_column": state.GeneColumn,
	}
}
