package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

var csvHeader = []string{
	"project_id", "project_name", "project_description",
	"prompt_id", "version", "content", "description", "tags", "created_at",
}

// Export serializes the projects in the requested format, returning
// the payload and its content type.
func (s *Service) Export(ctx context.Context, projectIDs []string, format string) ([]byte, string, error) {
	archive, err := s.Build(ctx, projectIDs)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case FormatJSON:
		data, err := json.Marshal(archive)
		if err != nil {
			return nil, "", fmt.Errorf("marshal archive: %w", err)
		}
		return data, "application/json", nil
	case FormatCSV:
		data, err := MarshalCSV(archive)
		if err != nil {
			return nil, "", err
		}
		return data, "text/csv", nil
	case FormatYAML:
		return []byte(MarshalYAML(archive)), "application/x-yaml", nil
	}
	return nil, "", fmt.Errorf("export: %w", ErrUnsupportedFormat)
}

// MarshalCSV emits one row per (project, prompt) pair, or a single
// placeholder row for a project without prompts. Tag names are joined
// with semicolons.
func MarshalCSV(a *Archive) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, proj := range a.Projects {
		if len(proj.Prompts) == 0 {
			if err := w.Write([]string{proj.ID, proj.Name, proj.Description, "", "", "", "", "", ""}); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
			continue
		}
		for _, p := range proj.Prompts {
			names := make([]string, 0, len(p.Tags))
			for _, t := range p.Tags {
				names = append(names, t.Name)
			}
			row := []string{
				proj.ID, proj.Name, proj.Description,
				p.ID, p.Version, p.Content, p.Description,
				strings.Join(names, ";"), p.CreatedAt,
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalYAML emits the restricted YAML subtree: per project, prompts
// collapsed to the name's greatest version by plain string comparison
// (not semantic order — a documented quirk), one block scalar per
// surviving name, entries sorted by name. The byte format is a
// compatibility contract; this is deliberately a string builder, not a
// YAML library.
func MarshalYAML(a *Archive) string {
	var b strings.Builder

	for _, proj := range a.Projects {
		latest := make(map[string]ArchivedPrompt)
		for _, p := range proj.Prompts {
			existing, ok := latest[p.Name]
			if !ok || p.Version > existing.Version {
				latest[p.Name] = p
			}
		}

		names := make([]string, 0, len(latest))
		for name := range latest {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			content := strings.ReplaceAll(latest[name].Content, "\n", "\n  ")
			b.WriteString(name)
			b.WriteString(": |\n  ")
			b.WriteString(content)
			b.WriteString("\n")
		}
	}

	return b.String()
}
