package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/issuehub/issuehub/pkg/auth"
	"github.com/issuehub/issuehub/pkg/db"
	"github.com/issuehub/issuehub/pkg/model"
	gormstore "github.com/issuehub/issuehub/pkg/server/store/gorm"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo data",
	Long: `Seed the database with a demo project, two users and a handful of
issues, for trying the API locally.

Both demo accounts use the password 'demo-password'. Running seed twice is a
no-op: it skips seeding when the demo project already exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := seedDemoData(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

const demoProjectKey = "DEMO"

func seedDemoData() error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	projects := gormstore.NewProjectsStore(database)
	if _, err := projects.GetProjectByKey(demoProjectKey); err == nil {
		fmt.Fprintln(os.Stderr, "Demo project already exists, nothing to do")
		return nil
	}

	hash, err := auth.HashPassword("demo-password")
	if err != nil {
		return err
	}

	users := gormstore.NewUsersStore(database)
	ada := &model.User{Name: "Ada Lovelace", Email: "ada@example.com", PasswordHash: hash}
	grace := &model.User{Name: "Grace Hopper", Email: "grace@example.com", PasswordHash: hash}
	for _, user := range []*model.User{ada, grace} {
		if err := users.CreateUser(user); err != nil {
			return fmt.Errorf("failed to create user '%s': %w", user.Email, err)
		}
	}

	project := &model.Project{
		Name:        "Demo project",
		Key:         demoProjectKey,
		Description: "Seeded demo data",
	}
	if err := projects.CreateProject(project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	memberships := gormstore.NewMembershipsStore(database)
	maintainer := &model.ProjectMember{ProjectID: project.ID, UserID: ada.ID, Role: model.RoleMaintainer}
	member := &model.ProjectMember{ProjectID: project.ID, UserID: grace.ID, Role: model.RoleMember}
	for _, m := range []*model.ProjectMember{maintainer, member} {
		if err := memberships.AddMember(m); err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
	}

	issues := gormstore.NewIssuesStore(database)
	seedIssues := []*model.Issue{
		{
			ProjectID:   project.ID,
			Title:       "Login page styling is off on mobile",
			Description: "The form overflows the viewport on narrow screens.",
			Status:      model.IssueStatusOpen,
			Priority:    model.IssuePriorityLow,
			ReporterID:  grace.ID,
		},
		{
			ProjectID:   project.ID,
			Title:       "Deploy pipeline fails on tags",
			Description: "Tagged builds skip the migration step.",
			Status:      model.IssueStatusInProgress,
			Priority:    model.IssuePriorityHigh,
			ReporterID:  ada.ID,
			AssigneeID:  &grace.ID,
		},
		{
			ProjectID:   project.ID,
			Title:       "Flaky listing test",
			Description: "Ordering assertion fails roughly one run in ten.",
			Status:      model.IssueStatusResolved,
			Priority:    model.IssuePriorityMedium,
			ReporterID:  grace.ID,
		},
	}
	for _, issue := range seedIssues {
		if err := issues.CreateIssue(issue); err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Seeded project '%s' with %d users and %d issues\n",
		demoProjectKey, 2, len(seedIssues))
	fmt.Fprintln(os.Stderr, "Demo accounts: ada@example.com / grace@example.com, password 'demo-password'")
	return nil
}
