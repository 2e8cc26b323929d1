package cmd

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/games"
	"github.com/lennai/lennai/internal/rewards"
	"github.com/lennai/lennai/internal/store"
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Play a study game",
}

var gameSequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Put the steps of a process in order",
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
		ledger, err := rewardLedger(cmd, d)
		if err != nil {
			return err
		}

		engine := games.NewSequence(gen, ledger)
		if err := engine.Load(ctx, subjectFlag(cmd)); err != nil {
			return fmt.Errorf("build puzzle: %w", err)
		}

		board := engine.Working()
		fmt.Println(engine.Title())
		fmt.Println(strings.Repeat("─", 60))
		for i, st := range board {
			fmt.Printf("%2d. %s\n", i+1, st.Text)
		}

		p := newPrompter()
		var order []int
		for {
			text, err := p.line("\nCorrect order (e.g. 3 1 2 ...)> ")
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				return err
			}
			if order, err = parseOrder(text, len(board)); err == nil {
				break
			}
			fmt.Println(err)
		}
		if err := arrange(engine, board, order); err != nil {
			return err
		}

		res, err := engine.Submit()
		if err != nil {
			return err
		}
		fmt.Println()
		for i, it := range res.Items {
			mark := "✔"
			if !it.Correct {
				mark = fmt.Sprintf("✘ belongs at %d", it.CorrectPosition)
			}
			fmt.Printf("%2d. %s  %s\n", i+1, it.Step.Text, mark)
		}
		fmt.Printf("\n%d / %d in place · %d%% accuracy\n", res.Correct, res.Total, res.Accuracy)
		return finishGame(cmd, engine.Complete, res.Won(cfg.SequenceWinThreshold))
	},
}

// arrange moves the steps of board into the chosen order, where order[i]
// is the board index of the step that goes at position i.
func arrange(engine *games.Sequence, board []content.PathStep, order []int) error {
	for target, pick := range order {
		id := board[pick].ID
		for from, st := range engine.Working() {
			if st.ID != id {
				continue
			}
			if err := engine.Move(from, target); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

var gameLabelCmd = &cobra.Command{
	Use:   "label",
	Short: "Match each structure to its label",
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
		ledger, err := rewardLedger(cmd, d)
		if err != nil {
			return err
		}

		engine := games.NewLabel(gen, ledger)
		if err := engine.Load(ctx, subjectFlag(cmd)); err != nil {
			return fmt.Errorf("build puzzle: %w", err)
		}
		puzzle := engine.Puzzle()
		fmt.Println(puzzle.Title)
		if path, _ := cmd.Flags().GetString("save-image"); path != "" && puzzle.ImageURL != "" {
			if err := saveDataURL(path, puzzle.ImageURL); err != nil {
				return err
			}
			fmt.Println("Illustration saved to", path)
		}

		opts := engine.Options()
		fmt.Println("\nLabels:")
		for i, o := range opts {
			fmt.Printf("   %d) %s\n", i+1, o)
		}

		p := newPrompter()
		for i, part := range puzzle.Parts {
			fmt.Printf("\n%d. %s\n", i+1, part.Description)
			choice, err := p.choice("label> ", len(opts))
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := engine.Match(part.ID, opts[choice]); err != nil {
				return err
			}
		}

		res, err := engine.Submit()
		if err != nil {
			return err
		}
		fmt.Println()
		for _, pr := range res.Parts {
			if pr.Correct {
				fmt.Printf("✔ %s\n", pr.Part.Label)
			} else {
				fmt.Printf("✘ %s (you chose %s)\n", pr.Part.Label, pr.Chosen)
			}
		}
		fmt.Printf("\n%d / %d correct\n", res.Score, res.Total)
		return finishGame(cmd, engine.Complete, res.Won())
	},
}

func init() {
	for _, c := range []*cobra.Command{gameSequenceCmd, gameLabelCmd} {
		c.Flags().String("subject", string(content.SubjectAnatomy), "Subject to draw the puzzle from")
	}
	gameLabelCmd.Flags().String("save-image", "", "Write the illustration to this file")

	gameCmd.AddCommand(gameSequenceCmd)
	gameCmd.AddCommand(gameLabelCmd)
}

func subjectFlag(cmd *cobra.Command) content.Subject {
	s, _ := cmd.Flags().GetString("subject")
	return content.ParseSubject(s)
}

// rewardLedger returns the signed-in user's ledger, or nil so the game can
// still be played without an account.
func rewardLedger(cmd *cobra.Command, d *deps) (games.Rewarder, error) {
	user, err := d.signedIn(cmd.Context())
	if err != nil {
		fmt.Println("Playing as a guest; rewards will not be saved.")
		return nil, nil
	}
	return rewards.NewService(d.store.RewardRepo(), user.ID), nil
}

// finishGame reports the outcome and prints the award.
func finishGame(cmd *cobra.Command, complete func(ctx context.Context, won bool) (*rewards.Award, error), won bool) error {
	award, err := complete(cmd.Context(), won)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	if won {
		fmt.Println("You win!")
	}
	if award != nil && award.Points > 0 {
		fmt.Printf("+%d points · streak +%d\n", award.Points, award.StreakDelta)
	}
	return nil
}

// saveDataURL decodes a base64 data URL into path.
func saveDataURL(path, dataURL string) error {
	_, data, ok := strings.Cut(dataURL, ";base64,")
	if !ok {
		return errors.New("illustration is not a base64 data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("decode illustration: %w", err)
	}
	if err := store.EnsureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
