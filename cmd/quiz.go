package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take a five-question practice quiz",
	Long: "Take a practice quiz on a topic you have studied with the tutor, or on\n" +
		"the topic given with --topic.",
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

		var pool []quiz.Topic
		if topic, _ := cmd.Flags().GetString("topic"); topic != "" {
			subject, _ := cmd.Flags().GetString("subject")
			pool = []quiz.Topic{{Topic: topic, Subject: content.ParseSubject(subject)}}
		} else {
			user, err := d.signedIn(ctx)
			if err != nil {
				return err
			}
			pool, err = quiz.PoolFromSessions(ctx, d.sessions, user.ID, 20)
			if err != nil {
				return err
			}
		}

		engine := quiz.NewEngine(gen, quiz.WithDifficulty(cfg.QuizDifficulty))
		run, err := engine.Start(ctx, pool)
		if errors.Is(err, quiz.ErrEmptyTopicPool) {
			return errors.New("nothing to quiz you on yet: chat with the tutor first or pass --topic")
		}
		if err != nil {
			return err
		}
		fmt.Printf("Quiz: %s (%s)\n", run.Topic.Topic, run.Topic.Subject)

		p := newPrompter()
		for !run.Finished {
			q := run.Current()
			fmt.Printf("\n%d/%d. %s\n", run.Index+1, len(run.Questions), q.Text)
			for i, opt := range q.Options {
				fmt.Printf("   %c) %s\n", 'A'+i, opt)
			}
			choice, err := p.choice("> ", len(q.Options))
			if errors.Is(err, errQuit) {
				break
			}
			if err != nil {
				return err
			}
			res, err := engine.Answer(choice)
			if err != nil {
				return err
			}
			if res.Correct {
				fmt.Println("✔ Correct")
			} else {
				fmt.Printf("✘ The answer is %c\n", 'A'+q.CorrectAnswer)
			}
			if q.Explanation != "" {
				fmt.Println("  " + q.Explanation)
			}
			if _, err := engine.Advance(); err != nil {
				return err
			}
			run = engine.Run()
		}

		run = engine.Run()
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("%d / %d correct · %d%% accuracy\n", run.Score, len(run.Questions), run.Accuracy())
		return nil
	},
}

func init() {
	quizCmd.Flags().String("topic", "", "Quiz on this topic instead of your study history")
	quizCmd.Flags().String("subject", "", "Subject of --topic (e.g. Pharmacology)")
}
