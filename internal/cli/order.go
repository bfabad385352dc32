package cli

import (
	"errors"
	"fmt"

	"github.com/morislaflame/clo-client/internal/domain"
	"github.com/morislaflame/clo-client/internal/order"
	"github.com/spf13/cobra"
)

var orderForm order.Form

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Create, list and cancel orders",
}

var orderCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit the basket as an order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		// The engine submits whatever the basket holds right now.
		if err := deps.basket.Load(ctx); err != nil {
			return err
		}

		created, msg, err := deps.orders.Create(ctx, orderForm, deps.basket)
		var verrs order.ValidationErrors
		if errors.As(err, &verrs) {
			for field, reason := range verrs {
				fmt.Printf("  %s: %s\n", field, reason)
			}
			return err
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s (order #%d, %.0f KZT)\n", msg, created.ID, created.TotalKZT)
		return nil
	},
}

var orderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		orders, err := deps.orders.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("No orders yet.")
			return nil
		}
		for _, o := range orders {
			fmt.Printf("#%-6d %-10s %10.0f KZT  %s\n", o.ID, o.Status, o.TotalKZT, o.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var orderCancelCmd = &cobra.Command{
	Use:   "cancel <orderID>",
	Short: "Request cancellation of an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orderID, err := parseID(args[0])
		if err != nil {
			return fmt.Errorf("order id must be a positive integer")
		}
		cancelled, err := deps.orders.Cancel(cmd.Context(), orderID)
		if err != nil {
			return err
		}
		fmt.Printf("Order #%d is now %s.\n", cancelled.ID, cancelled.Status)
		return nil
	},
}

func init() {
	f := orderCreateCmd.Flags()
	f.StringVar(&orderForm.RecipientName, "name", "", "recipient name")
	f.StringVar(&orderForm.RecipientPhone, "phone", "", "recipient phone (required for guests)")
	f.StringVar(&orderForm.RecipientEmail, "email", "", "recipient email (required for guests)")
	f.StringVar(&orderForm.Address, "address", "", "delivery address")
	var payment string
	f.StringVar(&payment, "payment", string(domain.PaymentCard), "payment method: CARD, CASH_ON_DELIVERY or KASPI")
	orderCreateCmd.PreRun = func(*cobra.Command, []string) {
		orderForm.PaymentMethod = domain.PaymentMethod(payment)
	}

	orderCmd.AddCommand(orderCreateCmd)
	orderCmd.AddCommand(orderListCmd)
	orderCmd.AddCommand(orderCancelCmd)
}
