package cmd

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/lennai/lennai/internal/chat"
	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/document"
	"github.com/lennai/lennai/internal/ui/studyview"
)

// printWidth is the wrap width for study content on the command line.
const printWidth = 80

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask the tutor, once or interactively",
	Long: "Ask the tutor a question. Without a question, starts an interactive\n" +
		"session; type q to leave. Replies are saved to your study history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		gen, err := d.requireGateway()
		if err != nil {
			return err
		}
		user, err := d.signedIn(ctx)
		if err != nil {
			return err
		}

		viewName, _ := cmd.Flags().GetString("view")
		view, ok := chat.ParseView(viewName)
		if !ok {
			return fmt.Errorf("unknown view %q (overview, slides, flashcards, quiz)", viewName)
		}
		orch := chat.NewOrchestrator(gen, d.sessions, user.ID, chat.WithHistoryWindow(cfg.HistoryWindow))
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			if err := orch.Restore(ctx, id); err != nil {
				return fmt.Errorf("resume session: %w", err)
			}
			fmt.Printf("Resumed %q.\n", orch.Title())
		}

		ask := func(text string) error {
			turn, err := orch.Send(ctx, text)
			if err != nil {
				return err
			}
			for _, w := range turn.Warnings {
				fmt.Println("warning:", w)
			}
			if turn.Err != nil {
				fmt.Println(turn.Reply.Content)
				return nil
			}
			printStudyUnit(turn.Reply.Payload, view)
			return nil
		}

		if len(args) > 0 {
			return ask(strings.Join(args, " "))
		}

		p := newPrompter()
		for {
			text, err := p.line("\nyou> ")
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				return err
			}
			if text == "" {
				continue
			}
			if err := ask(text); err != nil {
				return err
			}
		}
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Turn a PDF, image or text file into a study unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		gen, err := d.requireGateway()
		if err != nil {
			return err
		}
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}
		sc, err := gen.GenerateFromDocument(ctx, doc.Attachment())
		if err != nil {
			return err
		}
		viewName, _ := cmd.Flags().GetString("view")
		view, _ := chat.ParseView(viewName)
		printStudyUnit(sc, view)

		if d.uploader == nil {
			return nil
		}
		user, err := d.signedIn(ctx)
		if err != nil {
			fmt.Println("\nNot uploaded:", err)
			return nil
		}
		url, err := d.uploader.UploadMaterial(ctx, user.ID, doc.Name, doc.MIMEType, doc.Data)
		if err != nil {
			return fmt.Errorf("upload material: %w", err)
		}
		fmt.Println("\nSaved to", url)
		return nil
	},
}

var examCmd = &cobra.Command{
	Use:   "exam <topic>",
	Short: "Build a high-yield exam outline for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		gen, err := d.requireGateway()
		if err != nil {
			return err
		}
		o, err := gen.GenerateExamOutline(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", o.Topic, o.Subject)
		fmt.Println(strings.Repeat("─", 60))
		for i, p := range o.OutlinePoints {
			fmt.Printf("%2d. %s\n", i+1, p)
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().String("view", string(chat.ViewOverview), "How to show replies: overview, slides, flashcards or quiz")
	chatCmd.Flags().String("session", "", "Resume a stored session by id")
	analyzeCmd.Flags().String("view", string(chat.ViewOverview), "How to show the result: overview, slides, flashcards or quiz")
}

// printStudyUnit writes sc in view v, with colors reduced to what the
// terminal supports.
func printStudyUnit(sc *content.StructuredContent, v chat.View) {
	if sc == nil {
		return
	}
	lipgloss.Println(studyview.Render(sc, v, printWidth))
	if v == chat.ViewQuiz && len(sc.PracticeQuestions) > 0 {
		keys := make([]string, len(sc.PracticeQuestions))
		for i, q := range sc.PracticeQuestions {
			keys[i] = fmt.Sprintf("%d-%c", i+1, 'A'+q.CorrectAnswer)
		}
		fmt.Println("\nAnswers:", strings.Join(keys, " "))
	}
}
