package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/forge/internal/review"
	"github.com/mrz1836/forge/internal/roles"
)

// roleRow is the JSON shape of one catalog entry.
type roleRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Domain   string `json:"domain"`
	Reviews  string `json:"review_domain,omitempty"`
}

// AddRolesCommand adds the roles command to the root command.
func AddRolesCommand(root *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List the specialist roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := roles.All()
			out := a.output(cmd)

			if a.jsonOutput() {
				rows := make([]roleRow, 0, len(catalog))
				for _, r := range catalog {
					rows = append(rows, roleRow{
						ID:       r.ID,
						Name:     r.DisplayName,
						Priority: r.Priority,
						Domain:   r.Domain,
						Reviews:  review.DomainFor(r.ID).String(),
					})
				}
				return out.JSON(rows)
			}

			rows := make([][]string, 0, len(catalog))
			for _, r := range catalog {
				rows = append(rows, []string{r.ID, r.DisplayName, strconv.Itoa(r.Priority), r.Domain, orDash(review.DomainFor(r.ID).String())})
			}
			out.Table([]string{"ID", "NAME", "PRIORITY", "DOMAIN", "REVIEWS"}, rows)
			return nil
		},
	}

	root.AddCommand(cmd)
}
