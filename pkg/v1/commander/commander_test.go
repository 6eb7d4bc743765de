package commander_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/MichalMitros/pod-sync/pkg/v1/commander"
	"github.com/MichalMitros/pod-sync/pkg/v1/commander/mocks"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitSendCatalogSync(t *testing.T) {
	storeID := faker.UUIDHyphenated()
	body := []byte(fmt.Sprintf(
		`{"kind":"sync","sync":{"type":"update","entity":"product","entityId":"catalog:printful:%s","provider":"printful","stores":["%s"]}}`,
		storeID, storeID,
	))

	tests := map[string]struct {
		senderError error
		wantErr     error
	}{
		"ok": {},
		"sender error": {
			senderError: assert.AnError,
			wantErr:     assert.AnError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sender := mocks.NewSender(t)
			sender.On("Send", mock.Anything, body).Return(tt.senderError)

			cmndr := commander.NewSyncCommander(sender)
			err := cmndr.SendCatalogSync(context.TODO(), storeID, "printful")

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
		})
	}
}

func TestUnitSendSyncCommandWithoutStores(t *testing.T) {
	cmndr := commander.NewSyncCommander(mocks.NewSender(t))

	err := cmndr.SendSyncCommand(context.TODO(), commander.SyncCommand{Type: "update", Entity: "product", Provider: "gelato"})

	require.Error(t, err, "should reject command without stores")
}

func TestUnitSendWebhookCommand(t *testing.T) {
	cmd := commander.WebhookCommand{
		StoreID:   faker.UUIDHyphenated(),
		Provider:  "printify",
		Signature: "abc123",
		Body:      []byte("{\n  \"type\": \"inventory\",\n  \"providerId\": \"1\",\n  \"data\": {\"note\": \"<a&b>\"}\n}\n"),
	}

	sender := mocks.NewSender(t)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg []byte) bool {
		var got commander.Command
		if err := json.Unmarshal(msg, &got); err != nil {
			return false
		}
		return got.Kind == commander.KindWebhook && got.Sync == nil && got.Webhook != nil &&
			got.Webhook.StoreID == cmd.StoreID && bytes.Equal(got.Webhook.Body, cmd.Body)
	})).Return(nil).Once()

	err := commander.NewSyncCommander(sender).SendWebhookCommand(context.TODO(), cmd)

	require.NoError(t, err)
}
