package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/identity"
	"github.com/lennai/lennai/internal/ui/studyview"
)

var lecturerCmd = &cobra.Command{
	Use:   "lecturer",
	Short: "Teaching notes, lesson plans and question banks (lecturers only)",
}

// lecturerGateway opens the gateway after checking the signed-in user is a
// lecturer.
func lecturerGateway(cmd *cobra.Command) (content.Gateway, *deps, error) {
	d, err := openDeps(cmd)
	if err != nil {
		return nil, nil, err
	}
	user, err := d.signedIn(cmd.Context())
	if err == nil {
		err = identity.RequireLecturer(user)
	}
	if err != nil {
		d.Close()
		return nil, nil, err
	}
	gen, err := d.requireGateway()
	if err != nil {
		d.Close()
		return nil, nil, err
	}
	return gen, d, nil
}

var lecturerNotesCmd = &cobra.Command{
	Use:   "notes <topic>",
	Short: "Generate teaching notes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		depth, _ := cmd.Flags().GetString("depth")
		if depth != string(content.DepthSummary) && depth != string(content.DepthDetailed) {
			return fmt.Errorf("--depth must be %s or %s", content.DepthSummary, content.DepthDetailed)
		}
		gen, d, err := lecturerGateway(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		n, err := gen.GenerateLecturerNotes(cmd.Context(), strings.Join(args, " "), content.Depth(depth))
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", n.Title, n.Depth)
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println(n.Content)
		printList("Key concepts", n.KeyConcepts)
		printList("Clinical pearls", n.ClinicalPearls)
		printList("Diagrams to draw", n.DiagramDescriptions)
		return nil
	},
}

var lecturerPlanCmd = &cobra.Command{
	Use:   "plan <topic>",
	Short: "Generate a timed lesson plan",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, d, err := lecturerGateway(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := gen.GenerateLessonPlan(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", p.Title, p.Duration)
		fmt.Println(strings.Repeat("─", 60))
		printList("Objectives", p.Objectives)
		fmt.Println("\nStructure")
		for _, s := range p.Structure {
			fmt.Printf("  %-12s %s", s.Time, s.Activity)
			if s.Method != "" {
				fmt.Printf(" (%s)", s.Method)
			}
			fmt.Println()
		}
		printList("Group activities", p.GroupActivities)
		return nil
	},
}

var lecturerBankCmd = &cobra.Command{
	Use:   "bank <topic>",
	Short: "Generate a question bank",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, d, err := lecturerGateway(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		q, err := gen.GenerateQuestionBank(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Question bank: %s\n", q.Topic)
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("\nMultiple choice (%d)\n", len(q.MCQs))
		lipgloss.Println(studyview.Quiz(q.MCQs, printWidth, true))

		fmt.Printf("\nShort answer (%d)\n", len(q.ShortAnswers))
		for i, sa := range q.ShortAnswers {
			fmt.Printf("%d. %s\n   Answer: %s\n", i+1, sa.Question, sa.Answer)
			if sa.Rationale != "" {
				fmt.Printf("   Why: %s\n", sa.Rationale)
			}
		}
		if len(q.CaseStudies) > 0 {
			fmt.Printf("\nCase studies (%d)\n", len(q.CaseStudies))
			for i, cs := range q.CaseStudies {
				fmt.Printf("Case %d: %s\n", i+1, cs.Scenario)
				for j, question := range cs.Questions {
					fmt.Printf("  Q%d. %s\n", j+1, question)
					if j < len(cs.Answers) {
						fmt.Printf("      %s\n", cs.Answers[j])
					}
				}
			}
		}
		return nil
	},
}

func init() {
	lecturerNotesCmd.Flags().String("depth", string(content.DepthSummary), "summary or detailed")

	lecturerCmd.AddCommand(lecturerNotesCmd)
	lecturerCmd.AddCommand(lecturerPlanCmd)
	lecturerCmd.AddCommand(lecturerBankCmd)
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s\n", title)
	for _, it := range items {
		fmt.Printf("  • %s\n", it)
	}
}
