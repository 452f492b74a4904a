package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.Date(2026, 10, 18, 14, 0, 0, 0, time.FixedZone("WIB", 7*3600))

	tests := []struct {
		name      string
		topic     string
		orderID   string
		payload   interface{}
		wantOrder bool
	}{
		{name: "withSnapshot", topic: TopicOrderCreated, orderID: "ORD-1", payload: map[string]int{"totalAmount": 60000}, wantOrder: true},
		{name: "withoutSnapshot", topic: TopicOrderDeleted, orderID: "ORD-1"},
		{name: "clear", topic: TopicOrdersClear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.topic, tt.orderID, tt.payload, at)
			require.NoError(t, err)

			var e Event
			require.NoError(t, json.Unmarshal(raw, &e))
			assert.Equal(t, tt.topic, e.Type)
			assert.Equal(t, tt.orderID, e.OrderID)
			assert.True(t, e.OccurredAt.Equal(at))
			assert.Equal(t, time.UTC, e.OccurredAt.Location())
			assert.Equal(t, tt.wantOrder, len(e.Order) > 0)
		})
	}
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), TopicOrderCreated, []byte("{}")))
	assert.NoError(t, p.Close())
}
