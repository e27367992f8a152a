package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbarter/apperr"
)

func TestSendMessage(t *testing.T) {
	w := newWorld(t)
	exchange := w.mustCreate(t, w.requester.ID, nil, "")

	message, err := w.eng.SendMessage(w.requester.ID, exchange.ID, "still available?")
	require.NoError(t, err)
	assert.Equal(t, exchange.ID, message.ExchangeID)
	assert.Equal(t, w.requester.ID, message.SenderID)
	assert.Equal(t, "still available?", message.Content)

	_, err = w.eng.SendMessage(w.owner.ID, exchange.ID, "yes, come by tomorrow")
	require.NoError(t, err)
}

func TestSendMessageValidation(t *testing.T) {
	w := newWorld(t)
	exchange := w.mustCreate(t, w.requester.ID, nil, "")

	_, err := w.eng.SendMessage(w.rival.ID, exchange.ID, "let me in")
	assert.Equal(t, apperr.PermissionDenied, apperr.KindOf(err))

	_, err = w.eng.SendMessage(w.requester.ID, exchange.ID, "   ")
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))

	_, err = w.eng.SendMessage(w.requester.ID, "no-such-exchange", "hello")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestMessagesOrderedOldestFirst(t *testing.T) {
	w := newWorld(t)
	exchange := w.mustCreate(t, w.requester.ID, nil, "")

	for _, content := range []string{"first", "second", "third"} {
		_, err := w.eng.SendMessage(w.requester.ID, exchange.ID, content)
		require.NoError(t, err)
	}

	messages, err := w.eng.Messages(w.owner.ID, exchange.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "third", messages[2].Content)
}

func TestMessagesOnlyForParties(t *testing.T) {
	w := newWorld(t)
	exchange := w.mustCreate(t, w.requester.ID, nil, "")

	_, err := w.eng.Messages(w.rival.ID, exchange.ID)
	assert.Equal(t, apperr.PermissionDenied, apperr.KindOf(err))
}

// Messaging stays open whatever the exchange status; parties can still
// coordinate after completion or rejection.
func TestMessagesAfterTerminalState(t *testing.T) {
	w := newWorld(t)
	exchange := w.mustCreate(t, w.requester.ID, nil, "")
	_, err := w.eng.UpdateStatus(w.owner.ID, exchange.ID, ActionReject, nil)
	require.NoError(t, err)

	_, err = w.eng.SendMessage(w.requester.ID, exchange.ID, "too bad, thanks anyway")
	assert.NoError(t, err)
}
