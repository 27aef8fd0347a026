package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/limaJavier/courseplanner/internal/bootstrap"
	"github.com/limaJavier/courseplanner/pkg/planner"
	"github.com/limaJavier/courseplanner/pkg/term"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	logLevel   string
	outFile    string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Graduate course planner",
		Long: `Builds multi-term graduate course plans from per-term course snapshots and
program requirement rules, and validates single-course moves against a partial plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "configs/config.yaml", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&opts.outFile, "out", "o", "", "File to write the output to; standard output when empty")

	cmd.AddCommand(
		planCmd(opts),
		validateCmd(opts),
		auditCmd(opts),
		programsCmd(opts),
		specializationsCmd(opts),
		courseCmd(opts),
		requirementsCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			RunE: func(cmd *cobra.Command, args []string) error {
				return emit(cmd, opts, map[string]string{"name": appName, "version": Version})
			},
		},
	)

	return cmd
}

func planCmd(opts *options) *cobra.Command {
	request := planner.PlanRequest{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Draft a course plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := load(opts)
			if err != nil {
				return err
			}
			plan, err := engine.Plan(request)
			if err != nil {
				return err
			}
			return emit(cmd, opts, plan)
		},
	}
	programFlags(cmd, &request.Program, &request.Specialization)
	cmd.Flags().StringVar(&request.StartTerm, "start", "", "First term of the plan, e.g. 1249")
	cmd.Flags().IntVar(&request.Semesters, "semesters", 3, "Number of terms to plan")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func validateCmd(opts *options) *cobra.Command {
	request := planner.MoveRequest{}
	var planFile string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check whether a course can be placed in a term of a partial plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := load(opts)
			if err != nil {
				return err
			}
			if request.Schedule, err = readSchedule(planFile); err != nil {
				return err
			}
			result, err := engine.ValidateMove(request)
			if err != nil {
				return err
			}
			return emit(cmd, opts, result)
		},
	}
	cmd.Flags().StringVar(&request.Course, "course", "", "Course code, e.g. \"SYDE 660\"")
	cmd.Flags().StringVar(&request.Term, "term", "", "Target term code")
	cmd.Flags().StringVar(&request.Program, "program", "", "Program whose constraints apply (optional)")
	cmd.Flags().StringVar(&request.Specialization, "specialization", "", "Specialization of the program (optional)")
	cmd.Flags().StringVar(&planFile, "plan", "", "JSON file mapping term codes to course codes")
	cmd.Flags().StringVar(&request.StartTerm, "start", "", "First term of the plan; earliest planned term when empty")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("term")
	return cmd
}

func auditCmd(opts *options) *cobra.Command {
	var program, specialization, planFile string
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check a plan against the program requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := load(opts)
			if err != nil {
				return err
			}
			schedule, err := readSchedule(planFile)
			if err != nil {
				return err
			}
			report, err := engine.Audit(program, specialization, schedule)
			if err != nil {
				return err
			}
			return emit(cmd, opts, report)
		},
	}
	programFlags(cmd, &program, &specialization)
	cmd.Flags().StringVar(&planFile, "plan", "", "JSON file mapping term codes to course codes")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func programsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "List the loaded programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := load(opts)
			if err != nil {
				return err
			}
			return emit(cmd, opts, engine.ListPrograms())
		},
	}
}

func specializationsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "specializations <program>",
		Short: "List the specializations of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := load(opts)
			if err != nil {
				return err
			}
			specializations, err := engine.ListSpecializations(args[0])
			if err != nil {
				return err
			}
			return emit(cmd, opts, specializations)
		},
	}
}

func courseCmd(opts *options) *cobra.Command {
	var terms []string
	cmd := &cobra.Command{
		Use:   "course <code>",
		Short: "Show a course with its requisites and offerings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := load(opts)
			if err != nil {
				return err
			}
			codes := make([]term.Code, 0, len(terms))
			for _, raw := range terms {
				code, err := term.Parse(strings.TrimSpace(raw))
				if err != nil {
					return err
				}
				codes = append(codes, code)
			}
			info, err := engine.CourseInfo(args[0], codes...)
			if err != nil {
				return err
			}
			return emit(cmd, opts, info)
		},
	}
	cmd.Flags().StringSliceVar(&terms, "terms", nil, "Terms to predict availability for, e.g. 1259,1261")
	return cmd
}

func requirementsCmd(opts *options) *cobra.Command {
	var program, specialization string
	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "Show the resolved requirements of a program",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := load(opts)
			if err != nil {
				return err
			}
			view, err := engine.Requirements(program, specialization)
			if err != nil {
				return err
			}
			return emit(cmd, opts, view)
		},
	}
	programFlags(cmd, &program, &specialization)
	return cmd
}

func programFlags(cmd *cobra.Command, program, specialization *string) {
	cmd.Flags().StringVar(program, "program", "", "Program name")
	cmd.Flags().StringVar(specialization, "specialization", "", "Specialization name (optional)")
	_ = cmd.MarkFlagRequired("program")
}

func load(opts *options) (*planner.Planner, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts.configPath, opts.logLevel)
	if err != nil {
		return nil, err
	}
	return bootstrap.NewPlanner(cfg, lgr)
}

// readSchedule decodes a plan file such as {"1249": ["SYDE 600"]}; an empty path is an empty plan
func readSchedule(file string) (planner.Schedule, error) {
	schedule := planner.Schedule{}
	if file == "" {
		return schedule, nil
	}

	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read plan file: %w", err)
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return nil, fmt.Errorf("cannot parse plan file: %w", err)
	}
	if err := mapstructure.Decode(inputJson, &schedule); err != nil {
		return nil, fmt.Errorf("cannot decode plan file: %w", err)
	}
	return schedule, nil
}

func emit(cmd *cobra.Command, opts *options, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("an error occurred while building output json: %w", err)
	}

	if opts.outFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return err
	}
	if err := os.WriteFile(opts.outFile, encoded, 0o644); err != nil {
		return fmt.Errorf("an error occurred while writing to the output file: %w", err)
	}
	return nil
}
