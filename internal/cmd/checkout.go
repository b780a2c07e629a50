package cmd

import (
	"fmt"

	"storefront/internal/service"

	"github.com/spf13/cobra"
)

var (
	checkoutMethod string
	cardNumber     string
	cardExpiry     string
	cardCVV        string
	cardName       string
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the cart contents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := newSession()
		if err != nil {
			return err
		}

		details := service.PaymentDetails{
			CardNumber: cardNumber,
			ExpiryDate: cardExpiry,
			CVV:        cardCVV,
			CardName:   cardName,
		}
		result, err := session.Checkout(cmd.Context(), checkoutMethod, details)
		if err != nil {
			return err
		}
		fmt.Printf("Order #%d placed, transaction %s\n", result.OrderID, result.TransactionID)
		return nil
	},
}

func init() {
	checkoutCmd.Flags().StringVar(&checkoutMethod, "method", "credit-card", "payment method")
	checkoutCmd.Flags().StringVar(&cardNumber, "card-number", "", "card number")
	checkoutCmd.Flags().StringVar(&cardExpiry, "expiry", "", "card expiry (MM/YY)")
	checkoutCmd.Flags().StringVar(&cardCVV, "cvv", "", "card CVV")
	checkoutCmd.Flags().StringVar(&cardName, "card-name", "", "name on card")
	rootCmd.AddCommand(checkoutCmd)
}
