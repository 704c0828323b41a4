package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/degreeaudit/internal/studentfile"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage stored student documents",
}

var studentImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a student document into the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentImport,
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored students",
	RunE:  runStudentList,
}

var studentRemoveCmd = &cobra.Command{
	Use:   "remove <student-id>",
	Short: "Remove a stored student",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentRemove,
}

func init() {
	rootCmd.AddCommand(studentCmd)
	studentCmd.AddCommand(studentImportCmd)
	studentCmd.AddCommand(studentListCmd)
	studentCmd.AddCommand(studentRemoveCmd)
}

func runStudentImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	document, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read student file: %w", err)
	}

	// Parse before storing: a document that fails to load is rejected at
	// import time, not at audit time.
	student, err := studentfile.Parse(document)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	if err := store.PutStudent(ctx, string(student.ID), student.Name, document); err != nil {
		return err
	}

	fmt.Printf("imported student %s (%s)\n", student.ID, student.Name)
	return nil
}

func runStudentList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	listings, err := store.ListStudents(ctx)
	if err != nil {
		return err
	}

	for _, l := range listings {
		fmt.Printf("%-36s %-30s %s\n", l.StudentID, l.Name, l.UpdatedAt)
	}
	return nil
}

func runStudentRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	return store.DeleteStudent(ctx, args[0])
}
