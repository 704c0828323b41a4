package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/degreeaudit/internal/areafile"
	"github.com/solatis/degreeaudit/internal/audit"
	"github.com/solatis/degreeaudit/internal/render"
	"github.com/solatis/degreeaudit/internal/rule"
	"github.com/solatis/degreeaudit/internal/studentfile"
	"github.com/solatis/degreeaudit/internal/types"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Evaluate a student against an area of study",
	Long: `Evaluates a student's transcript against an area requirement tree.

Inputs come from files (--area-file, --student-file) or from the input
store (--area plus --catalog, --student). File and store sources may be
mixed.`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().String("area-file", "", "area document path (YAML)")
	auditCmd.Flags().String("student-file", "", "student document path (JSON)")
	auditCmd.Flags().String("area", "", "stored area name")
	auditCmd.Flags().String("catalog", "", "stored area catalog year")
	auditCmd.Flags().String("student", "", "stored student ID")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	areaFile, _ := cmd.Flags().GetString("area-file")
	studentFile, _ := cmd.Flags().GetString("student-file")
	areaName, _ := cmd.Flags().GetString("area")
	catalog, _ := cmd.Flags().GetString("catalog")
	studentID, _ := cmd.Flags().GetString("student")

	var area *rule.Area
	var student *types.Student

	if areaFile != "" {
		if area, err = areafile.Load(areaFile); err != nil {
			return err
		}
	}
	if studentFile != "" {
		if student, err = studentfile.Load(studentFile); err != nil {
			return err
		}
	}

	if area == nil || student == nil {
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
		defer cancel()

		if area == nil {
			if areaName == "" || catalog == "" {
				return fmt.Errorf("need --area-file, or --area and --catalog")
			}
			document, err := store.GetArea(ctx, areaName, catalog)
			if err != nil {
				return err
			}
			if area, err = areafile.Parse(document); err != nil {
				return err
			}
		}

		if student == nil {
			if studentID == "" {
				return fmt.Errorf("need --student-file or --student")
			}
			document, err := store.GetStudent(ctx, studentID)
			if err != nil {
				return err
			}
			if student, err = studentfile.Parse(document); err != nil {
				return err
			}
		}
	}

	result, err := audit.Audit(area, student)
	if err != nil {
		return err
	}

	fmt.Print(render.Report(result))
	return nil
}
