package handlers

import (
	"errors"
	"net/http"
	"strings"

	"ava/internal/extract"
	"ava/internal/ingredient"
	applog "ava/internal/log"
	"ava/internal/scan"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

type labelRequest struct {
	Image           string `json:"image"`
	ProductName     string `json:"productName"`
	ProductCategory string `json:"productCategory"`
	Barcode         string `json:"barcode"`
	Save            bool   `json:"save"`
}

type labelResponse struct {
	ExtractedText string                `json:"extractedText"`
	Ingredients   []ingredient.Analyzed `json:"ingredients"`
	Product       *scan.Product         `json:"product"`
}

// AnalyzeText matches free ingredient text against the catalog and
// annotates it for the caller.
func AnalyzeText(w http.ResponseWriter, r *http.Request) {
	if deps.Scanner == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "scanning not available")
		return
	}

	var body analyzeRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeJSONError(w, http.StatusBadRequest, "Text is required")
		return
	}

	_, profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	result, err := deps.Scanner.Analyze(r.Context(), body.Text, profile)
	if err != nil {
		applog.Error(r.Context(), "failed to analyze ingredients", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to analyze ingredients")
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// ScanLabel extracts text from a label image or PDF, isolates the ingredient
// list and scans it. The product is saved when requested.
func ScanLabel(w http.ResponseWriter, r *http.Request) {
	if deps.Scanner == nil || deps.Extractor == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "scanning not available")
		return
	}

	var body labelRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Image) == "" {
		writeJSONError(w, http.StatusBadRequest, "Image data is required")
		return
	}
	if body.Save && (strings.TrimSpace(body.ProductName) == "" || strings.TrimSpace(body.ProductCategory) == "") {
		writeJSONError(w, http.StatusBadRequest, "Product name and category are required to save a product")
		return
	}

	doc, err := extract.DecodeBase64(body.Image)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid image data")
		return
	}

	userID, profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	text, err := deps.Extractor.ExtractText(r.Context(), doc)
	if errors.Is(err, extract.ErrUnsupported) {
		writeJSONError(w, http.StatusBadRequest, "Unsupported document type")
		return
	}
	if err != nil {
		applog.Error(r.Context(), "failed to extract label text", "error", err, "mime", doc.MIMEType)
		writeJSONError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}
	applog.Debug(r.Context(), "label text extracted", "mime", doc.MIMEType, "chars", len(text))

	var info *scan.ProductInfo
	if body.Save {
		info = &scan.ProductInfo{
			Name:     body.ProductName,
			Category: body.ProductCategory,
			Barcode:  body.Barcode,
			OwnerID:  userID,
		}
	}

	result, err := deps.Scanner.Scan(r.Context(), extract.IngredientsSection(text), profile, info)
	if err != nil {
		applog.Error(r.Context(), "failed to scan label", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}

	writeJSON(w, r, http.StatusOK, labelResponse{
		ExtractedText: text,
		Ingredients:   result.Ingredients,
		Product:       result.Product,
	})
}
