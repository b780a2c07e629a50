package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the local cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart contents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := newSession()
		if err != nil {
			return err
		}
		cart := session.Cart()
		if cart.IsEmpty() {
			fmt.Println("Cart is empty")
			return nil
		}
		for _, line := range cart.Lines() {
			fmt.Printf("#%-4d %-30s $%.2f x %d = $%.2f\n",
				line.ProductID, line.Name, line.Price, line.Quantity, line.Price*float64(line.Quantity))
		}
		fmt.Printf("Total: $%.2f (%d items)\n", cart.Subtotal(), cart.ItemCount())
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [quantity]",
	Short: "Add a product to the cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, api, err := newSession()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		qty := 1
		if len(args) == 2 {
			qty, err = strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
		}
		product, err := api.GetProduct(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := session.Cart().Add(product, qty); err != nil {
			return err
		}
		fmt.Printf("Added %s to cart\n", product.Name)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:     "remove <product-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a product from the cart",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := newSession()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		if err := session.Cart().Remove(id); err != nil {
			return err
		}
		fmt.Println("Removed")
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := newSession()
		if err != nil {
			return err
		}
		if err := session.Cart().Clear(); err != nil {
			return err
		}
		fmt.Println("Cart cleared")
		return nil
	},
}

func init() {
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}
