package main

import (
	"encoding/json"
	"fmt"
	"os"

	"cervejaria_storefront/internal/adapter/http/dto/request"
	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase"

	"github.com/spf13/cobra"
)

func checkoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from a JSON cart",
		Long: `Reads a cart in the storefront checkout format
({"items": [...], "shippingAddress": {...}}) and creates the order.
Prints the order id and the total to pay; follow up with "pixctl pay".`,
		Args: cobra.NoArgs,
		RunE: runCheckout,
	}
	cmd.Flags().String("cart", "", "Path to the cart JSON file (required)")
	_ = cmd.MarkFlagRequired("cart")
	return cmd
}

func runCheckout(cmd *cobra.Command, _ []string) error {
	req, err := readCart(mustString(cmd, "cart"))
	if err != nil {
		return err
	}
	_, client, err := loadClient(cmd)
	if err != nil {
		return err
	}

	items := req.CartItems()
	order, err := usecase.NewCheckoutUseCase(client).PlaceOrder(cmd.Context(), tokenFlag(cmd), items, req.Address())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Order:       %s\n", order.ID)
	fmt.Fprintf(out, "Total:       R$ %s\n", order.Total.StringFixed(2))
	fmt.Fprintf(out, "Cart total:  R$ %s (incl. shipping)\n", entities.LocalTotal(items).StringFixed(2))
	if order.Pix != nil {
		fmt.Fprintf(out, "PIX:         %s\n", order.Pix.PixCode)
	}
	return nil
}

func readCart(path string) (request.CheckoutRequest, error) {
	var req request.CheckoutRequest
	raw, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("invalid cart file %s: %w", path, err)
	}
	return req, nil
}
