// Package commands wires the admin CLI. Every command talks to a running
// backend through the api client; record commands go through the manager so
// the CLI exercises the same state machine as the UI.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"coursefolio/internal/app/models"
	"coursefolio/internal/cli/api"
	"coursefolio/internal/cli/manager"
	"coursefolio/internal/cli/service"
	"coursefolio/internal/config"
)

var serverURL string

// NewRootCmd builds the CLI command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coursefolio",
		Short: "Admin CLI for the course portfolio backend",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		config.GetEnv("COURSEFOLIO_SERVER", "http://localhost:8080"),
		"base URL of the backend")

	rootCmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newCoursesCmd(),
		newListCmd(),
		newAddCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newMoveCmd(),
	)
	return rootCmd
}

func newAPIClient() (*api.Client, error) {
	tokens, err := api.NewTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	return api.NewClient(serverURL, tokens), nil
}

func newManager(courseCode string, itemType models.ItemType) (*manager.Manager, error) {
	client, err := newAPIClient()
	if err != nil {
		return nil, err
	}
	return manager.NewManager(service.NewAssignments(client), courseCode, itemType), nil
}

func parseItemType(raw string) (models.ItemType, error) {
	if raw == "" {
		return "", nil
	}
	t := models.ItemType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("type must be %q or %q", models.TypeAssignment, models.TypeResource)
	}
	return t, nil
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Authenticate and store the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			user, err := client.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s\n", user.Username)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			user, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
}

func newCoursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List the course catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			courses, err := client.ListCourses(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range courses {
				fmt.Printf("%-10s %-45s %d units  [%s]\n", c.Code, c.Name, c.Units, c.Status)
			}
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var courseCode, itemType string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a course's records in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseItemType(itemType)
			if err != nil {
				return err
			}
			mgr, err := newManager(courseCode, t)
			if err != nil {
				return err
			}
			if err := mgr.Refresh(cmd.Context()); err != nil {
				return err
			}
			for i, item := range mgr.Items() {
				fileInfo := ""
				if item.FileURL != nil {
					fileInfo = " " + *item.FileURL
				}
				fmt.Printf("%2d. [%s] %s (%s)%s\n", i+1, item.Type, item.Title, item.ID, fileInfo)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&courseCode, "course", "", "course code, e.g. \"CST 300\"")
	cmd.Flags().StringVar(&itemType, "type", "", "filter by type: assignment or resource")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

func newAddCmd() *cobra.Command {
	var courseCode, itemType, title, description, link, filePath string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record from a link or a local file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseItemType(itemType)
			if err != nil {
				return err
			}
			if t == "" {
				t = models.TypeAssignment
			}
			mgr, err := newManager(courseCode, t)
			if err != nil {
				return err
			}
			if err := mgr.Refresh(cmd.Context()); err != nil {
				return err
			}

			kind := manager.KindFile
			if link != "" {
				kind = manager.KindLink
			}
			if err := mgr.StartCreate(kind); err != nil {
				return err
			}
			form := mgr.Form()
			form.Title = title
			form.Description = description
			form.URL = link
			if filePath != "" {
				f, err := os.Open(filePath)
				if err != nil {
					return err
				}
				defer f.Close()
				form.NewFilename = filepath.Base(filePath)
				form.NewFile = f
			}

			created, err := mgr.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Created %s (%s)\n", created.Title, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&courseCode, "course", "", "course code")
	cmd.Flags().StringVar(&itemType, "type", "", "assignment or resource")
	cmd.Flags().StringVar(&title, "title", "", "record title")
	cmd.Flags().StringVar(&description, "description", "", "record description")
	cmd.Flags().StringVar(&link, "link", "", "external URL for a link record")
	cmd.Flags().StringVar(&filePath, "file", "", "local file to upload")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newEditCmd() *cobra.Command {
	var courseCode, id, title, description, link, filePath string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit an existing record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(courseCode, "")
			if err != nil {
				return err
			}
			if err := mgr.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := mgr.StartEdit(id); err != nil {
				return err
			}
			form := mgr.Form()
			if title != "" {
				form.Title = title
			}
			if description != "" {
				form.Description = description
			}
			if link != "" {
				form.Kind = manager.KindLink
				form.URL = link
			}
			if filePath != "" {
				f, err := os.Open(filePath)
				if err != nil {
					return err
				}
				defer f.Close()
				form.Kind = manager.KindFile
				form.NewFilename = filepath.Base(filePath)
				form.NewFile = f
			}

			updated, err := mgr.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s (%s)\n", updated.Title, updated.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&courseCode, "course", "", "course code")
	cmd.Flags().StringVar(&id, "id", "", "record id")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&link, "link", "", "new external URL")
	cmd.Flags().StringVar(&filePath, "file", "", "replacement file to upload")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var courseCode, id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(courseCode, "")
			if err != nil {
				return err
			}
			if err := mgr.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := mgr.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&courseCode, "course", "", "course code")
	cmd.Flags().StringVar(&id, "id", "", "record id")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newMoveCmd() *cobra.Command {
	var courseCode, id string
	var to int
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a record to a new position (1-based)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(courseCode, "")
			if err != nil {
				return err
			}
			if err := mgr.Refresh(cmd.Context()); err != nil {
				return err
			}

			from := -1
			for i, item := range mgr.Items() {
				if item.ID == id {
					from = i
					break
				}
			}
			if from < 0 {
				return fmt.Errorf("record %s not found in course %s", id, courseCode)
			}

			if err := mgr.StartDrag(from); err != nil {
				return err
			}
			if err := mgr.DropOn(cmd.Context(), to-1); err != nil {
				return err
			}
			fmt.Printf("Moved %s to position %d\n", id, to)
			return nil
		},
	}
	cmd.Flags().StringVar(&courseCode, "course", "", "course code")
	cmd.Flags().StringVar(&id, "id", "", "record id")
	cmd.Flags().IntVar(&to, "to", 1, "target position, 1-based")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
