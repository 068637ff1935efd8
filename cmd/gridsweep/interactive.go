package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-gridsweep/pkg/axis"
	"github.com/goliatone/go-gridsweep/pkg/sweepfile"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("aborted")

// prompter abstracts the terminal prompts so the interactive flow can be
// tested without a real terminal.
type prompter interface {
	Select(ctx context.Context, message string, options []string, current string) (string, error)
	Input(ctx context.Context, message, current, help string) (string, error)
	Confirm(ctx context.Context, message string, current bool) (bool, error)
}

// promptSweep walks the user through axis selection, overwriting the loaded
// document's bindings and flags in place.
func promptSweep(ctx context.Context, registry *axis.Registry, doc *sweepfile.Document, p prompter) error {
	labels := registry.Labels()

	bindings := []struct {
		name    string
		binding *sweepfile.AxisBinding
	}{
		{"column", &doc.Col},
		{"row", &doc.Row},
		{"page", &doc.Page},
	}
	for _, b := range bindings {
		label, err := p.Select(ctx, fmt.Sprintf("Axis for the %s direction:", b.name), labels, b.binding.Axis)
		if err != nil {
			return err
		}
		b.binding.Axis = label
		if label == axis.LabelNothing {
			b.binding.Values = ""
			continue
		}
		values, err := p.Input(ctx, fmt.Sprintf("Values for %s:", label), b.binding.Values,
			"comma-separated values; ranges like 1-5, 1-5(2) and 1-5[3] expand")
		if err != nil {
			return err
		}
		b.binding.Values = values
	}

	flags := []struct {
		message string
		value   *bool
	}{
		{"Draw axis legend on grids?", &doc.Flags.DrawLegend},
		{"Include individual cell images in the result?", &doc.Flags.IncludeLoneImages},
		{"Keep unfixed (-1) seeds instead of drawing random ones?", &doc.Flags.KeepUnfixedSeeds},
	}
	for _, f := range flags {
		answer, err := p.Confirm(ctx, f.message, *f.value)
		if err != nil {
			return err
		}
		*f.value = answer
	}

	return nil
}

// surveyPrompter drives the prompts through the survey library.
type surveyPrompter struct{}

var _ prompter = surveyPrompter{}

func (surveyPrompter) Select(ctx context.Context, message string, options []string, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 10,
	}
	if current != "" {
		prompt.Default = current
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Input(ctx context.Context, message, current, help string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: message,
		Default: current,
		Help:    help,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Confirm(ctx context.Context, message string, current bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: message,
		Default: current,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
