package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/events"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish resource change events to an in-process bus and inspect what subscribers receive`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [entity]",
	Short: "Publish a test resource change",
	Long:  `Publish a resource.changed event for the given entity and log what a subscriber receives`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var (
	eventAction string
	eventIDs    string
	eventOrg    int64
)

func publishTestEvent(entity string) {
	lg := logger.LoggerWrapper()

	bus := events.NewEventBus(lg)
	unsubscribe := bus.Subscribe(events.EventTypeResourceChanged, "cli.inspector", func(ctx context.Context, event events.Event) error {
		lg.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})
	defer unsubscribe()

	var ids []int64
	for _, raw := range strings.Split(eventIDs, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}

	notifier := resource.NewNotifier(nil, bus, lg)
	notifier.Changed(context.Background(), resource.Change{
		Entity: entity,
		Action: eventAction,
		IDs:    ids,
		Scope:  internal.Scope{OrganisationID: eventOrg},
		Data:   map[string]any{"source": "cli-command"},
	})

	bus.Wait()
	lg.Info("test event published successfully", "entity", entity, "action", eventAction)
}

func init() {
	publishEventCmd.Flags().StringVar(&eventAction, "action", resource.ActionUpdate, "Change action")
	publishEventCmd.Flags().StringVar(&eventIDs, "ids", "1", "Comma separated entity ids")
	publishEventCmd.Flags().Int64Var(&eventOrg, "org", 1, "Organisation id of the change")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
