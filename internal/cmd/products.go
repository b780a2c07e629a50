package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products [id]",
	Short: "List the catalog, or show one product",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, api, err := newSession()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			product, err := api.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("#%d %s\n", product.ID, product.Name)
			fmt.Printf("  Price: $%.2f\n", product.Price)
			fmt.Printf("  Stock: %d\n", product.Stock)
			fmt.Printf("  %s\n", product.Description)
			return nil
		}

		products, err := api.ListProducts(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("#%-4d %-30s $%.2f\n", p.ID, p.Name, p.Price)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
}
