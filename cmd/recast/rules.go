package main

import (
	"github.com/spf13/cobra"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/domain/values"
	"github.com/reglet-dev/recast/internal/infrastructure/output"
)

func newRulesCmd(a *app) *cobra.Command {
	var (
		req    dto.ListRulesRequest
		target string
		format string
	)
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the conversion rules",
		Long: `List the rules applied during conversion.

Filtering:
  --namespace camunda            Rules for elements or attributes of one namespace
  --node attribute               Only element or attribute rules
  --filter "min_version != ''"   Advanced filtering expression over
                                 name, node, namespace, local, min_version, fallback`,
		Args: cobra.NoArgs,
		RunE: a.withContainer(func(cctx *CommandContext, cmd *cobra.Command, _ []string) error {
			if target == "" {
				target = cctx.Container.Config().TargetVersion
			}
			v, err := values.ParseTargetVersion(target)
			if err != nil {
				return err
			}
			req.Target = v

			rules, err := cctx.Container.ListRulesUseCase().Execute(req)
			if err != nil {
				return err
			}
			return output.FormatRules(cmd.OutOrStdout(), format, rules)
		}),
	}
	cmd.Flags().StringVar(&req.Namespace, "namespace", "", "Namespace short name (bpmn, camunda, dmn, modeler)")
	cmd.Flags().StringVar(&req.Node, "node", "", "Node kind: element or attribute")
	cmd.Flags().StringVar(&req.FilterExpression, "filter", "", "Filter expression (e.g. \"fallback\")")
	cmd.Flags().StringVar(&target, "target-version", "", "Mark rules unsupported by this version (default from config)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, markdown, json, yaml")
	return cmd
}
