package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptvault/promptvault/internal/models"
	"github.com/promptvault/promptvault/internal/store"
)

// Import reads a serialized archive and reconstructs it with upserts.
// The format is taken from the explicit parameter, falling back to the
// file extension.
func (s *Service) Import(ctx context.Context, data []byte, format, filename string) (*Result, error) {
	if format == "" {
		if idx := strings.LastIndex(filename, "."); idx >= 0 {
			format = strings.ToLower(filename[idx+1:])
		}
	}

	switch format {
	case FormatJSON:
		return s.importJSON(ctx, data)
	case FormatCSV:
		return s.importCSV(ctx, data)
	}
	return nil, fmt.Errorf("import: %w", ErrUnsupportedFormat)
}

func (s *Service) importJSON(ctx context.Context, data []byte) (*Result, error) {
	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("parse archive: %w", err)
	}

	result := &Result{Success: true, Errors: []string{}}

	for _, proj := range archive.Projects {
		projectID := pickID(proj.LegacyID, proj.ID)
		if projectID == "" {
			result.Skipped++
			result.Errors = append(result.Errors, "Missing project id")
			continue
		}

		err := s.store.UpsertProject(ctx, &models.Project{
			ID:          projectID,
			Name:        proj.Name,
			Description: proj.Description,
			CreatedAt:   parseTimestamp(proj.CreatedAt),
			UpdatedAt:   parseTimestamp(proj.UpdatedAt),
		})
		if err != nil {
			return nil, err
		}

		for _, p := range proj.Prompts {
			promptID := pickID(p.LegacyID, p.ID)
			if promptID == "" {
				promptID = uuid.NewString()
			}

			tagIDs := make([]string, 0, len(p.Tags))
			for _, t := range p.Tags {
				tagID := pickID(t.LegacyID, t.ID)
				if tagID == "" {
					tagID = uuid.NewString()
				}
				color := t.Color
				if color == "" {
					color = models.DefaultTagColor
				}
				err := s.store.UpsertTag(ctx, &models.Tag{
					ID:        tagID,
					Name:      t.Name,
					Color:     color,
					CreatedAt: parseTimestamp(t.CreatedAt),
				})
				if err != nil {
					return nil, err
				}
				tagIDs = append(tagIDs, tagID)
			}

			version := p.Version
			if version == "" {
				version = "1.0.0"
			}
			err := s.store.UpsertPrompt(ctx, &models.Prompt{
				ID:          promptID,
				ProjectID:   projectID,
				Name:        p.Name,
				Version:     version,
				Content:     p.Content,
				Description: p.Description,
				Category:    p.Category,
				TagIDs:      tagIDs,
				CreatedAt:   parseTimestamp(p.CreatedAt),
			})
			if err != nil {
				return nil, err
			}
		}

		result.Imported++
	}

	return result, nil
}

func (s *Service) importCSV(ctx context.Context, data []byte) (*Result, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyCSV
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	result := &Result{Success: true, Errors: []string{}}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, "Invalid row format")
			continue
		}
		if len(row) < 9 {
			result.Skipped++
			result.Errors = append(result.Errors, "Invalid row format")
			continue
		}

		projectID, projectName, projectDesc := row[0], row[1], row[2]
		promptID, version, content, desc, tagNames, createdAt := row[3], row[4], row[5], row[6], row[7], row[8]

		now := time.Now().UTC()
		err = s.store.UpsertProject(ctx, &models.Project{
			ID:          projectID,
			Name:        projectName,
			Description: projectDesc,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return nil, err
		}

		if promptID != "" {
			tagIDs, err := s.resolveTagNames(ctx, tagNames)
			if err != nil {
				return nil, err
			}

			if version == "" {
				version = "1.0.0"
			}
			created := now
			if createdAt != "" {
				created = parseTimestamp(createdAt)
			}

			// The CSV format carries no prompt name; rows inherit the
			// project name, as older exports always did.
			err = s.store.UpsertPrompt(ctx, &models.Prompt{
				ID:          promptID,
				ProjectID:   projectID,
				Name:        projectName,
				Version:     version,
				Content:     content,
				Description: desc,
				TagIDs:      tagIDs,
				CreatedAt:   created,
			})
			if err != nil {
				return nil, err
			}
		}

		result.Imported++
	}

	return result, nil
}

// resolveTagNames maps semicolon-joined names to tag ids, creating
// tags that do not exist yet.
func (s *Service) resolveTagNames(ctx context.Context, joined string) ([]string, error) {
	ids := []string{}
	for _, name := range strings.Split(joined, ";") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		existing, err := s.store.GetTagByName(ctx, name)
		if err == nil {
			ids = append(ids, existing.ID)
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		tag := &models.Tag{
			ID:        uuid.NewString(),
			Name:      name,
			Color:     models.DefaultTagColor,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.InsertTag(ctx, tag); err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}
