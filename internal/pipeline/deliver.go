package pipeline

import (
	"context"
	"fmt"

	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
	"github.com/mrz1836/forge/internal/extract"
	"github.com/mrz1836/forge/internal/generation"
	"github.com/mrz1836/forge/internal/merge"
	"github.com/mrz1836/forge/internal/prompts"
	"github.com/mrz1836/forge/internal/requirements"
	"github.com/mrz1836/forge/internal/review"
	"github.com/mrz1836/forge/internal/roles"
)

// deliver turns the role results into the artifact.
func (p *Pipeline) deliver(ctx context.Context, request string, out *Outcome) error {
	if p.cfg.Generation.Delivery == config.DeliveryMerge {
		out.Artifact = merge.Merge(out.Results, roles.Lookup)
		return nil
	}

	succeeded := generation.Succeeded(out.Results)
	sections := make([]prompts.RoleSection, 0, len(succeeded))
	for _, r := range succeeded {
		name := r.RoleID
		if role, err := roles.Lookup(r.RoleID); err == nil {
			name = role.DisplayName
		}
		sections = append(sections, prompts.RoleSection{RoleName: name, Output: r.Output})
	}

	response, err := p.client.Assemble(ctx, prompts.AssemblyData{
		UserRequest:     request,
		ContextFields:   requirements.ContextFields(out.Record),
		Sections:        sections,
		ExpectMultiFile: extract.ExpectMultiFile(request),
	})
	if err != nil {
		return fmt.Errorf("%w: assembly: %w", forgeerrors.ErrAllRolesFailed, err)
	}

	res := p.extractor.Extract(response, request)
	out.Extraction = &res
	out.Artifact = res.Artifact

	event := p.logger.Info().
		Str("kind", string(res.Artifact.Kind())).
		Str("method", string(res.Method)).
		Float64("confidence", res.Confidence)
	if proj, ok := res.Artifact.(*domain.MultiFileProject); ok {
		event = event.Int("files", len(proj.Files))
	}
	event.Msg("artifact extracted")
	return nil
}

// reviewResults scans every succeeded role output and escalates serious
// findings. Nothing here can fail the turn.
func (p *Pipeline) reviewResults(ctx context.Context, out *Outcome) {
	if !p.cfg.Collaboration.Enabled {
		return
	}

	for _, r := range generation.Succeeded(out.Results) {
		report := p.detector.Scan(r.RoleID, r.Output)
		out.Reviews = append(out.Reviews, report)

		sess, err := review.Escalate(ctx, p.store, report, r.Output)
		if err != nil {
			p.logger.Warn().Err(err).Str("role_id", r.RoleID).Msg("escalation incomplete")
		}
		if sess != nil {
			out.Sessions = append(out.Sessions, sess)
		}
	}

	if removed := p.store.GC(p.cfg.Collaboration.SessionMaxAge); removed > 0 {
		p.logger.Debug().Int("removed", removed).Int("retained", p.store.Len()).Msg("old collaboration sessions collected")
	}
}
