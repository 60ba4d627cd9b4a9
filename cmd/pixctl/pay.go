package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase"

	"github.com/spf13/cobra"
)

// errNotApproved makes the process exit non-zero when the payment ends in
// any terminal status other than approved.
var errNotApproved = errors.New("payment not approved")

func payCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay [order-id]",
		Short: "Open the PIX session of an order and follow it to the end",
		Long: `Generates (or reuses) the PIX code of the order, prints it with the
live countdown and exits once the payment is approved, expired, cancelled
or rejected. The amount is the order total reported by the backend for the
signed-in customer. With --confirm the manual confirmation is sent right
away.`,
		Args: cobra.ExactArgs(1),
		RunE: runPay,
	}
	cmd.Flags().Bool("confirm", false, "Send the manual \"I already paid\" confirmation")
	return cmd
}

func runPay(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient(cmd)
	if err != nil {
		return err
	}
	confirm, _ := cmd.Flags().GetBool("confirm")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := usecase.NewPixSessionUseCase(client, client, nil, nil, usecase.PixSessionConfig{
		PollInterval:   cfg.PollInterval,
		TickInterval:   cfg.TickInterval,
		FallbackWindow: cfg.FallbackWindow,
	})
	defer sessions.Shutdown()

	token := tokenFlag(cmd)
	st, err := sessions.Reopen(ctx, token, args[0])
	if err != nil {
		return err
	}
	return follow(ctx, cmd.OutOrStdout(), sessions, token, st, confirm)
}

func follow(ctx context.Context, out io.Writer, sessions usecase.IPixSessionUseCase, token string, first entities.RenderState, confirm bool) error {
	orderID := first.OrderID
	if first.IsFinal() {
		return finalResult(out, first)
	}
	fmt.Fprintf(out, "Order %s  R$ %s\nPIX copia e cola:\n%s\n\n", orderID, first.Amount.StringFixed(2), first.PixCode)

	states, unsubscribe, err := sessions.Subscribe(ctx, token, orderID)
	if err != nil {
		return err
	}
	defer unsubscribe()

	if confirm {
		if _, err := sessions.RequestConfirmation(ctx, token, orderID); err != nil {
			return err
		}
		if st, err := sessions.Confirm(ctx, token, orderID); err != nil {
			fmt.Fprintf(out, "confirmation failed: %s\n", st.Notice)
		}
	}

	for {
		select {
		case <-ctx.Done():
			_ = sessions.Close(context.Background(), token, orderID)
			fmt.Fprintln(out)
			return ctx.Err()
		case st, ok := <-states:
			if !ok {
				return finalResult(out, mustSnapshot(sessions, token, orderID))
			}
			if st.IsFinal() {
				fmt.Fprintln(out)
				return finalResult(out, st)
			}
			fmt.Fprintf(out, "\rwaiting for payment  %s ", st.Remaining)
		}
	}
}

func finalResult(out io.Writer, st entities.RenderState) error {
	msg := st.Message
	if msg == "" {
		msg = string(st.Kind)
	}
	fmt.Fprintf(out, "%s: %s\n", st.Kind, msg)
	if st.Kind != entities.RenderApproved {
		return errNotApproved
	}
	return nil
}

func mustSnapshot(sessions usecase.IPixSessionUseCase, token, orderID string) entities.RenderState {
	st, err := sessions.Snapshot(context.Background(), token, orderID)
	if err != nil {
		return entities.RenderState{Kind: entities.RenderError, OrderID: orderID, Message: err.Error()}
	}
	return st
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
