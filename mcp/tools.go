package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lvillar/immodoc/doctpl"
	"github.com/lvillar/immodoc/documents"
	"github.com/lvillar/immodoc/pageops"
)

// Toolset holds what the document tools operate on.
type Toolset struct {
	Engine    *documents.Engine
	Templates doctpl.Catalog
	// AgencyID is used when a call does not name an agency.
	AgencyID string
}

// RegisterDefaultTools adds the document tools to the server.
func RegisterDefaultTools(s *Server, ts Toolset) {
	s.AddTool(ts.generateTool(documents.KindContract, "generate_contract",
		"Generate the lease contract (contrat de location) of a lease record.",
		"Lease record: unites, locataires, destination, date_debut, date_fin, loyer_mensuel, caution"))
	s.AddTool(ts.generateTool(documents.KindReceipt, "generate_receipt",
		"Generate the rent receipt (quittance de loyer) of a payment record.",
		"Payment record: reference, contrats, montant_total, date_paiement, mois_concerne"))
	s.AddTool(ts.generateTool(documents.KindMandate, "generate_mandate",
		"Generate the management mandate (mandat de gérance) signed by a landlord.",
		"Landlord record: prenom, nom, piece_identite, adresse, bien_adresse, bien_composition, commission"))
	s.AddTool(ts.listTemplatesTool())
	s.AddTool(stampDuplicateTool())
	s.AddTool(mergeDocumentsTool())
	s.AddTool(addPageNumbersTool())
	s.AddTool(pageCountTool())
}

func (ts Toolset) generateTool(kind documents.Kind, name, description, recordHelp string) Tool {
	return Tool{
		Name:        name,
		Description: description + " Returns the PDF as base64 unless outputPath is given.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"agencyId": map[string]any{
					"type":        "string",
					"description": "Agency whose settings brand the document",
				},
				"record": map[string]any{
					"type":        "object",
					"description": recordHelp,
				},
				"recordPath": map[string]any{
					"type":        "string",
					"description": "Path to a YAML or JSON record file, used when record is omitted",
				},
				"outputPath": map[string]any{
					"type":        "string",
					"description": "Optional file path to save the PDF. If omitted, returns base64.",
				},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			return ts.generate(ctx, kind, args)
		},
	}
}

func (ts Toolset) generate(ctx context.Context, kind documents.Kind, args map[string]any) (ToolResult, error) {
	data, err := recordArg(args)
	if err != nil {
		return ToolResult{}, err
	}
	agency, _ := args["agencyId"].(string)
	if agency == "" {
		agency = ts.AgencyID
	}

	job := documents.Job{Kind: kind, AgencyID: agency}
	if data != nil {
		switch kind {
		case documents.KindContract:
			job.Lease = new(documents.Lease)
			err = documents.DecodeRecord(data, job.Lease)
		case documents.KindReceipt:
			job.Payment = new(documents.Payment)
			err = documents.DecodeRecord(data, job.Payment)
		case documents.KindMandate:
			job.Landlord = new(documents.Landlord)
			err = documents.DecodeRecord(data, job.Landlord)
		}
		if err != nil {
			return ToolResult{}, err
		}
	}

	res, err := ts.Engine.Run(ctx, job)
	if err != nil {
		return ToolResult{}, err
	}

	summary := fmt.Sprintf("%s generated (%d pages, %d bytes)", res.FileName, res.Pages, len(res.Data))
	if res.Degraded {
		summary += ", degraded: the template could not be rendered"
	}
	if outputPath, ok := args["outputPath"].(string); ok && outputPath != "" {
		if err := os.WriteFile(outputPath, res.Data, 0o644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return textResult(summary + ": " + outputPath), nil
	}
	return ToolResult{
		Content: []ContentBlock{
			{Type: "text", Text: summary},
			{Type: "resource", MIMEType: "application/pdf", Data: base64.StdEncoding.EncodeToString(res.Data)},
		},
	}, nil
}

// recordArg returns the record of a generate call, or nil when none is given.
func recordArg(args map[string]any) ([]byte, error) {
	if rec, ok := args["record"]; ok && rec != nil {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encoding record: %w", err)
		}
		return data, nil
	}
	if path, ok := args["recordPath"].(string); ok && path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		return data, nil
	}
	return nil, nil
}

func (ts Toolset) listTemplatesTool() Tool {
	return Tool{
		Name:        "list_templates",
		Description: "List the document templates available to the generator.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: func(context.Context, map[string]any) (ToolResult, error) {
			infos, err := ts.Templates.List()
			if err != nil {
				return ToolResult{}, err
			}
			out := make([]map[string]any, 0, len(infos))
			for _, info := range infos {
				out = append(out, map[string]any{
					"id":       info.ID,
					"name":     info.Name,
					"external": info.External,
					"uri":      templateURI(info.Name),
				})
			}
			jsonBytes, _ := json.MarshalIndent(out, "", "  ")
			return textResult(string(jsonBytes)), nil
		},
	}
}

func stampDuplicateTool() Tool {
	return Tool{
		Name:        "stamp_duplicate",
		Description: "Reissue a PDF document with a diagonal DUPLICATA watermark on every page.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"inputPath": map[string]any{
					"type":        "string",
					"description": "Path to the input PDF",
				},
				"outputPath": map[string]any{
					"type":        "string",
					"description": "Path for the output PDF",
				},
				"text": map[string]any{
					"type":        "string",
					"description": "Watermark text (default: DUPLICATA)",
				},
				"fontSize": map[string]any{
					"type":        "number",
					"description": "Font size in points (default: 60)",
				},
				"opacity": map[string]any{
					"type":        "number",
					"description": "Opacity from 0.0 to 1.0 (default: 0.3)",
				},
				"angle": map[string]any{
					"type":        "number",
					"description": "Rotation angle in degrees (default: 45)",
				},
			},
			"required": []string{"inputPath", "outputPath"},
		},
		Handler: handleStampDuplicate,
	}
}

func handleStampDuplicate(_ context.Context, args map[string]any) (ToolResult, error) {
	inputPath, _ := args["inputPath"].(string)
	outputPath, _ := args["outputPath"].(string)
	if inputPath == "" || outputPath == "" {
		return ToolResult{}, errors.New("inputPath and outputPath are required")
	}

	wm := pageops.TextWatermark{}
	if text, ok := args["text"].(string); ok {
		wm.Text = text
	}
	if fs, ok := args["fontSize"].(float64); ok {
		wm.FontSize = fs
	}
	if op, ok := args["opacity"].(float64); ok {
		wm.Opacity = op
	}
	if angle, ok := args["angle"].(float64); ok {
		wm.Angle = angle
	}

	if err := pageops.StampFile(inputPath, outputPath, wm); err != nil {
		return ToolResult{}, err
	}
	text := wm.Text
	if text == "" {
		text = pageops.DuplicateText
	}
	return textResult(fmt.Sprintf("Watermark '%s' added to %s -> %s", text, inputPath, outputPath)), nil
}

func mergeDocumentsTool() Tool {
	return Tool{
		Name:        "merge_documents",
		Description: "Merge several PDF documents into one, e.g. a month of receipts for printing.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"inputPaths": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Paths to PDF files to merge, in order",
				},
				"outputPath": map[string]any{
					"type":        "string",
					"description": "Path for the merged output PDF",
				},
			},
			"required": []string{"inputPaths", "outputPath"},
		},
		Handler: handleMergeDocuments,
	}
}

func handleMergeDocuments(_ context.Context, args map[string]any) (ToolResult, error) {
	pathsRaw, ok := args["inputPaths"].([]any)
	if !ok {
		return ToolResult{}, errors.New("missing 'inputPaths' argument")
	}
	outputPath, ok := args["outputPath"].(string)
	if !ok || outputPath == "" {
		return ToolResult{}, errors.New("missing 'outputPath' argument")
	}

	paths := make([]string, len(pathsRaw))
	for i, p := range pathsRaw {
		paths[i], _ = p.(string)
	}
	if err := pageops.MergeFiles(outputPath, paths...); err != nil {
		return ToolResult{}, fmt.Errorf("merging: %w", err)
	}
	return textResult(fmt.Sprintf("Merged %d documents into %s", len(paths), outputPath)), nil
}

func addPageNumbersTool() Tool {
	return Tool{
		Name:        "add_page_numbers",
		Description: "Add page numbers to a PDF file.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"inputPath": map[string]any{
					"type":        "string",
					"description": "Path to the input PDF",
				},
				"outputPath": map[string]any{
					"type":        "string",
					"description": "Path for the output PDF",
				},
				"format": map[string]any{
					"type":        "string",
					"description": "Format string receiving page and total (default: 'Page %d / %d')",
				},
				"position": map[string]any{
					"type":        "string",
					"description": "Position: bottom-center, bottom-left, bottom-right, top-center, top-left, top-right, center",
				},
			},
			"required": []string{"inputPath", "outputPath"},
		},
		Handler: handleAddPageNumbers,
	}
}

func handleAddPageNumbers(_ context.Context, args map[string]any) (ToolResult, error) {
	inputPath, _ := args["inputPath"].(string)
	outputPath, _ := args["outputPath"].(string)
	if inputPath == "" || outputPath == "" {
		return ToolResult{}, errors.New("inputPath and outputPath are required")
	}

	style := pageops.PageNumberStyle{}
	if f, ok := args["format"].(string); ok {
		style.Format = f
	}
	if pos, ok := args["position"].(string); ok {
		style.Position = parsePosition(pos)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return ToolResult{}, fmt.Errorf("reading %s: %w", inputPath, err)
	}
	var buf bytes.Buffer
	if err := pageops.Number(&buf, data, style); err != nil {
		return ToolResult{}, err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return ToolResult{}, fmt.Errorf("writing file: %w", err)
	}
	return textResult(fmt.Sprintf("Page numbers added to %s -> %s", inputPath, outputPath)), nil
}

func pageCountTool() Tool {
	return Tool{
		Name:        "page_count",
		Description: "Count the pages of a PDF file.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path to the PDF file",
				},
			},
			"required": []string{"path"},
		},
		Handler: handlePageCount,
	}
}

func handlePageCount(_ context.Context, args map[string]any) (ToolResult, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return ToolResult{}, errors.New("missing 'path' argument")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ToolResult{}, fmt.Errorf("opening PDF: %w", err)
	}
	n, err := pageops.PageCount(data)
	if err != nil {
		return ToolResult{}, err
	}
	jsonBytes, _ := json.Marshal(map[string]any{"path": path, "numPages": n})
	return textResult(string(jsonBytes)), nil
}

func textResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

func parsePosition(s string) pageops.Position {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "topleft":
		return pageops.TopLeft
	case "topcenter":
		return pageops.TopCenter
	case "topright":
		return pageops.TopRight
	case "bottomleft":
		return pageops.BottomLeft
	case "bottomright":
		return pageops.BottomRight
	case "center":
		return pageops.Center
	default:
		return pageops.BottomCenter
	}
}
