package cmd

import (
	"fmt"

	"storefront/internal/client"

	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your past orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, api, err := newSession()
		if err != nil {
			return err
		}
		if !session.LoggedIn() {
			return fmt.Errorf("please login to view orders")
		}

		rows, err := api.ListOrders(cmd.Context())
		if err != nil {
			return err
		}
		orders := client.GroupOrderRows(rows)
		if len(orders) == 0 {
			fmt.Println("No orders yet")
			return nil
		}
		for _, o := range orders {
			fmt.Printf("Order #%d  %s  $%.2f  [%s]\n",
				o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.TotalAmount, o.Status)
			for _, line := range o.Items {
				fmt.Printf("    %-30s $%.2f x %d\n", line.ProductName, line.Price, line.Quantity)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
}
