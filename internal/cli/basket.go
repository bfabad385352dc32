package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	flagColorID int64
	flagSizeID  int64
)

var basketCmd = &cobra.Command{
	Use:   "basket",
	Short: "Inspect and modify the basket",
}

var basketShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current basket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := deps.basket.Load(cmd.Context()); err != nil {
			return err
		}
		lines, summary := deps.basket.Snapshot()
		if len(lines) == 0 {
			fmt.Println("Basket is empty.")
			return nil
		}
		for _, l := range lines {
			fmt.Printf("%-30s x%-3d %10.0f KZT\n", l.Product.Name, l.Quantity, float64(l.Quantity)*l.Product.PriceKZT)
		}
		fmt.Printf("Total: %d item(s), %.0f KZT / %.2f USD\n", summary.ItemsCount, summary.TotalKZT, summary.TotalUSD)
		return nil
	},
}

var basketAddCmd = &cobra.Command{
	Use:   "add <productID>",
	Short: "Add one unit of a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := parseID(args[0])
		if err != nil {
			return err
		}

		product, err := deps.products.GetByID(cmd.Context(), productID)
		if err != nil {
			return fmt.Errorf("fetch product: %w", err)
		}

		colorID, sizeID := selectorFlags()
		msg, err := deps.basket.Add(cmd.Context(), product, colorID, sizeID)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

var basketRemoveCmd = &cobra.Command{
	Use:   "remove <productID>",
	Short: "Remove a line from the basket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := parseID(args[0])
		if err != nil {
			return err
		}
		colorID, sizeID := selectorFlags()
		if err := deps.basket.Remove(cmd.Context(), productID, colorID, sizeID); err != nil {
			return err
		}
		fmt.Println("Removed from basket.")
		return nil
	},
}

var basketSetQtyCmd = &cobra.Command{
	Use:   "set-qty <productID> <quantity>",
	Short: "Set a line's quantity (0 removes the line)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := parseID(args[0])
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil || quantity < 0 {
			return fmt.Errorf("quantity must be a non-negative integer")
		}
		colorID, sizeID := selectorFlags()
		if err := deps.basket.SetQuantity(cmd.Context(), productID, quantity, colorID, sizeID); err != nil {
			return err
		}
		fmt.Println("Quantity updated.")
		return nil
	},
}

var basketClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the basket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := deps.basket.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Basket cleared.")
		return nil
	},
}

var basketCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the item count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if deps.basket.IsGuest() {
			// Guest count comes from the loaded envelope, so load first.
			if err := deps.basket.Load(cmd.Context()); err != nil {
				return err
			}
		}
		count, err := deps.basket.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil
	},
}

func selectorFlags() (colorID, sizeID *int64) {
	if flagColorID > 0 {
		colorID = &flagColorID
	}
	if flagSizeID > 0 {
		sizeID = &flagSizeID
	}
	return colorID, sizeID
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("product id must be a positive integer")
	}
	return id, nil
}

func init() {
	for _, c := range []*cobra.Command{basketAddCmd, basketRemoveCmd, basketSetQtyCmd} {
		c.Flags().Int64Var(&flagColorID, "color", 0, "selected color id")
		c.Flags().Int64Var(&flagSizeID, "size", 0, "selected size id")
	}

	basketCmd.AddCommand(basketShowCmd)
	basketCmd.AddCommand(basketAddCmd)
	basketCmd.AddCommand(basketRemoveCmd)
	basketCmd.AddCommand(basketSetQtyCmd)
	basketCmd.AddCommand(basketClearCmd)
	basketCmd.AddCommand(basketCountCmd)
}
