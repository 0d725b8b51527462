package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/jrsteele09/go-admin-session/orders"
	"github.com/spf13/cobra"
)

var ordersStatusFilter string

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Manage orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			list []*orders.Order
			err  error
		)
		if ordersStatusFilter != "" {
			status, perr := orders.ParseStatus(ordersStatusFilter)
			if perr != nil {
				return perr
			}
			list, err = app.api.OrdersByStatus(cmd.Context(), status)
		} else {
			list, err = app.api.ListOrders(cmd.Context())
		}
		if err != nil {
			return err
		}
		return printOrders(list)
	},
}

var ordersStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show order totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := app.api.OrderStats(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Orders:\t%d\n", stats.TotalOrders)
		fmt.Fprintf(w, "Sales:\t%.2f\n", stats.TotalSales)
		fmt.Fprintf(w, "Pending sales:\t%.2f\n", stats.PendingSales)
		fmt.Fprintf(w, "Completed sales:\t%.2f\n", stats.CompletedSales)
		for _, st := range orders.Statuses {
			fmt.Fprintf(w, "%s:\t%d\n", st, stats.StatusCounts[st])
		}
		return w.Flush()
	},
}

var ordersSetStatusCmd = &cobra.Command{
	Use:   "set-status <order-id> <status>",
	Short: "Move an order to a new status",
	Long:  `Statuses: Pending, Confirmed, "Out for Delivery", Delivered, Cancelled.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := orders.ParseStatus(args[1])
		if err != nil {
			return err
		}
		o, err := app.api.SetOrderStatus(cmd.Context(), args[0], status)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.out, "order %s is now %s\n", o.OrderID, o.Status)
		return nil
	},
}

var ordersAssignCmd = &cobra.Command{
	Use:   "assign <order-id> <delivery-user-id>",
	Short: "Assign a delivery person to an order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := app.api.AssignDelivery(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(app.out, "order %s assigned to %s\n", o.OrderID, o.DeliveryID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd, ordersStatsCmd, ordersSetStatusCmd, ordersAssignCmd)
	ordersListCmd.Flags().StringVar(&ordersStatusFilter, "status", "", "Only list orders with this status")
}

func printOrders(list []*orders.Order) error {
	w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSTATUS\tTOTAL\tITEMS\tDELIVERY\tCREATED")
	for _, o := range list {
		items := 0
		for _, li := range o.Products {
			items += li.Quantity
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%s\t%s\n", o.OrderID, o.Status, o.TotalPrice, items, dash(o.DeliveryID), formatTime(o.CreatedAt))
	}
	return w.Flush()
}
