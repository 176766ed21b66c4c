package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/lvillar/immodoc/doctpl"
)

const templateScheme = "template://"

func templateURI(name string) string { return templateScheme + name }

// RegisterTemplateResources exposes every template of catalog as a
// template://<name> resource. The list is taken once; reads always fetch the
// current text.
func RegisterTemplateResources(s *Server, catalog doctpl.Catalog) error {
	infos, err := catalog.List()
	if err != nil {
		return fmt.Errorf("mcp: listing templates: %w", err)
	}
	handler := func(ctx context.Context, uri string) ([]ResourceContent, error) {
		name := strings.TrimPrefix(uri, templateScheme)
		text, err := catalog.Fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		return []ResourceContent{{URI: uri, MIMEType: "text/plain", Text: text}}, nil
	}
	for _, info := range infos {
		desc := "Embedded document template"
		if info.External {
			desc = "Document template from the override directory"
		}
		s.AddResource(Resource{
			URI:         templateURI(info.Name),
			Name:        info.Name,
			Description: desc,
			MIMEType:    "text/plain",
			Handler:     handler,
		})
	}
	return nil
}
