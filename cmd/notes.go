package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	notesrender "github.com/wrenlabs/notewire/internal/adapters/render/notes"
	"github.com/wrenlabs/notewire/internal/domain"
)

// refreshSettleTimeout bounds how long the one-shot CLI lingers for the
// staggered post-confirmation re-reads before reporting.
const refreshSettleTimeout = 15 * time.Second

func newListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.connect(cmd.Context()); err != nil {
				return err
			}

			summaries, err := app.coord.RefreshList(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w (retry with: notewire list)", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), notesrender.RenderList(summaries, app.coord.NotYetVisible()))
			return err
		},
	}
}

func newShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			if _, err := app.connect(cmd.Context()); err != nil {
				return err
			}
			if err := app.view.Select(id); err != nil {
				return err
			}

			note, err := app.coord.FetchNote(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("%w (retry with: notewire show %d)", err, id)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), notesrender.RenderNote(note))
			return err
		},
	}
}

func newNewCmd(app *app) *cobra.Command {
	var (
		title   string
		content string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			app.view.StartCreate()

			title, content, err = restoreDraft(cmd, app, session.Account.Hex(), domain.PendingTargetNew, title, content)
			if err != nil {
				return err
			}

			draft := domain.Draft{
				Account:  session.Account.Hex(),
				TargetID: domain.PendingTargetNew,
				Title:    title,
				Content:  content,
				SavedAt:  time.Now(),
			}
			if err := app.drafts.Save(cmd.Context(), draft); err != nil {
				return fmt.Errorf("save draft: %w", err)
			}

			handle, err := app.coord.SubmitCreate(cmd.Context(), title, content)
			if err != nil {
				// Failed save: stay in Creating, keep the draft.
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dispatched tx %s, waiting for confirmation...\n", handle.Hash().Hex())

			outcome := <-handle.Done()
			if outcome.Err != nil {
				return fmt.Errorf("create failed, draft kept: %w", outcome.Err)
			}

			app.view.SaveSucceeded(outcome.NoteID)
			_ = app.drafts.Delete(cmd.Context(), draft.Account, draft.TargetID)

			if outcome.NoteID != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "created note #%d (tx %s)\n", *outcome.NoteID, outcome.Receipt.TxHash.Hex())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "created note (tx %s); the contract did not report an id\n", outcome.Receipt.TxHash.Hex())
			}

			return settleAndReport(cmd, app)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title (falls back to a saved draft)")
	cmd.Flags().StringVar(&content, "content", "", "note body (falls back to a saved draft)")

	return cmd
}

func newEditCmd(app *app) *cobra.Command {
	var (
		title   string
		content string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			session, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.view.Select(id); err != nil {
				return err
			}
			if err := app.view.StartEdit(); err != nil {
				return err
			}

			title, content, err = restoreDraft(cmd, app, session.Account.Hex(), int64(id), title, content)
			if err != nil {
				return err
			}

			draft := domain.Draft{
				Account:  session.Account.Hex(),
				TargetID: int64(id),
				Title:    title,
				Content:  content,
				SavedAt:  time.Now(),
			}
			if err := app.drafts.Save(cmd.Context(), draft); err != nil {
				return fmt.Errorf("save draft: %w", err)
			}

			handle, err := app.coord.SubmitUpdate(cmd.Context(), id, title, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dispatched tx %s, waiting for confirmation...\n", handle.Hash().Hex())

			outcome := <-handle.Done()
			if outcome.Err != nil {
				return fmt.Errorf("update failed, draft kept: %w", outcome.Err)
			}

			app.view.SaveSucceeded(nil)
			_ = app.drafts.Delete(cmd.Context(), draft.Account, draft.TargetID)
			fmt.Fprintf(cmd.OutOrStdout(), "updated note #%d (tx %s)\n", id, outcome.Receipt.TxHash.Hex())

			return settleAndReport(cmd, app)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title (falls back to a saved draft)")
	cmd.Flags().StringVar(&content, "content", "", "new body (falls back to a saved draft)")

	return cmd
}

func newDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			if _, err := app.connect(cmd.Context()); err != nil {
				return err
			}

			handle, err := app.coord.SubmitDelete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dispatched tx %s, waiting for confirmation...\n", handle.Hash().Hex())

			outcome := <-handle.Done()
			if outcome.Err != nil {
				return outcome.Err
			}

			app.view.NoteDeleted(id)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted note #%d (later notes may have been renumbered)\n", id)

			return settleAndReport(cmd, app)
		},
	}
}

func newDraftsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drafts",
		Short: "List locally saved drafts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.ensureWallet(cmd.Context()); err != nil {
				return err
			}
			accounts, err := app.provider.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				return fmt.Errorf("wallet holds no accounts")
			}

			drafts, err := app.drafts.List(cmd.Context(), accounts[0].Hex())
			if err != nil {
				return err
			}
			if len(drafts) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no drafts")
				return err
			}

			for _, draft := range drafts {
				target := "new"
				if draft.TargetID != domain.PendingTargetNew {
					target = "#" + strconv.FormatInt(draft.TargetID, 10)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", target, draft.Title, draft.SavedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

// restoreDraft fills fields the flags left empty from a draft that survived
// an earlier failed write. A non-empty title must come from one or the other.
func restoreDraft(cmd *cobra.Command, app *app, account string, target int64, title, content string) (string, string, error) {
	if title == "" || content == "" {
		saved, err := app.drafts.Get(cmd.Context(), account, target)
		switch {
		case err == nil:
			title, content = mergeDraft(saved, title, content)
			fmt.Fprintf(cmd.OutOrStdout(), "restored draft saved %s\n", saved.SavedAt.Format(time.RFC3339))
		case !errors.Is(err, domain.ErrDraftNotFound):
			return "", "", fmt.Errorf("restore draft: %w", err)
		}
	}
	if title == "" {
		return "", "", errors.New("note title is required; pass --title or leave a draft to restore")
	}
	return title, content, nil
}

func mergeDraft(saved domain.Draft, title, content string) (string, string) {
	if title == "" {
		title = saved.Title
	}
	if content == "" {
		content = saved.Content
	}
	return title, content
}

// settleAndReport waits for the coordinator's staggered post-confirmation
// re-reads, then prints the reconciled list so the user sees what the chain
// actually reports.
func settleAndReport(cmd *cobra.Command, app *app) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), refreshSettleTimeout)
	defer cancel()

	for i := 0; i < 2; i++ {
		select {
		case <-app.coord.Refreshes():
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				fmt.Fprintln(cmd.OutOrStdout(), "list refresh still settling; run: notewire list")
				return nil
			}
			return ctx.Err()
		}
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), notesrender.RenderList(app.coord.Notes(), app.coord.NotYetVisible()))
	return err
}

func parseNoteID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("note id must be a non-negative integer, got %q", raw)
	}
	return id, nil
}
