package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/store"
)

// completionTracker returns the tracker for dynamic completions, or nil.
func completionTracker(cmd *cobra.Command) *store.Tracker {
	if app == nil {
		return nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tr, err := app.Tracker(ctx)
	if err != nil {
		return nil
	}
	return tr
}

// completeIDs offers short ids with a description.
func completeIDs[T model.Entity[T]](items []T, describe func(T) string, toComplete string) []string {
	var completions []string
	for _, item := range items {
		short := output.ShortID(item.GetID())
		if strings.HasPrefix(short, toComplete) {
			completions = append(completions, short+"\t"+describe(item))
		}
	}
	return completions
}

// completeApplicationIDs completes the first argument with application ids.
func completeApplicationIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	tr := completionTracker(cmd)
	if tr == nil || len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeIDs(tr.Applications.List(), func(a *model.Application) string {
		return a.CompanyName + " · " + a.Position
	}, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeApplicationStatus completes an application id, then a status.
func completeApplicationStatus(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 1 {
		return completeStatuses(cmd, args, toComplete)
	}
	return completeApplicationIDs(cmd, args, toComplete)
}

// completeEventIDs completes the first argument with event ids.
func completeEventIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	tr := completionTracker(cmd)
	if tr == nil || len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeIDs(tr.Events.List(), func(e *model.Event) string {
		return e.Company + " · " + string(e.Step)
	}, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeActionItemIDs completes an event id, then one of its item ids.
func completeActionItemIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return completeEventIDs(cmd, args, toComplete)
	}
	tr := completionTracker(cmd)
	if tr == nil || len(args) > 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, ev := range tr.Events.List() {
		if !strings.HasPrefix(ev.ID, args[0]) {
			continue
		}
		var completions []string
		for _, item := range ev.ActionItems {
			short := output.ShortID(item.ID)
			if strings.HasPrefix(short, toComplete) {
				completions = append(completions, short+"\t"+item.Text)
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// completeProblemIDs completes the first argument with problem ids.
func completeProblemIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	tr := completionTracker(cmd)
	if tr == nil || len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeIDs(tr.Problems.List(), func(p *model.Problem) string {
		return p.Name
	}, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeStatuses(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matching(model.Statuses, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeSteps(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matching(model.Steps, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeDifficulties(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matching(model.Difficulties, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completePeriods suggests the periods understood by --period.
func completePeriods(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	periods := []string{
		"today", "yesterday", "tomorrow",
		"this week", "last week", "next week",
		"this month", "last month", "next month",
	}
	return matching(periods, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// matching returns the values starting with prefix, ignoring case.
func matching[S ~string](values []S, prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(string(v)), prefix) {
			out = append(out, string(v))
		}
	}
	return out
}
