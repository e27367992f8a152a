package context

import (
	"log"

	"campusbarter/config"
	"campusbarter/engine"
	"campusbarter/identity"
	"campusbarter/rabbit"
	"campusbarter/repository"
	"campusbarter/storage"
)

// Context carries the wired application dependencies through the HTTP
// layer. The rabbit client stays private so all publishing goes through
// PublishExchangeEvent, which is tolerant of a missing broker.
type Context struct {
	events   *rabbit.RabbitClient // may be nil when events are disabled
	Repo     *repository.Repository
	Engine   *engine.Engine
	Identity identity.Provider
	Storage  storage.ImageStorage
	Config   *config.Config
}

// SetEvents attaches the event publisher - used during initialization
func (context *Context) SetEvents(client *rabbit.RabbitClient) {
	context.events = client
}

// PublishExchangeEvent publishes a lifecycle event, best-effort. Events are
// telemetry; a broker failure never fails the request that triggered it.
func (context *Context) PublishExchangeEvent(eventType, exchangeID, actorID string) {
	if context.events == nil {
		return
	}

	log.Printf("[CONTEXT] Publishing %s for exchange %s via RabbitMQ", eventType, exchangeID)

	err := context.events.PublishExchangeEvent(rabbit.ExchangeEventBag{
		EventType:  eventType,
		ExchangeID: exchangeID,
		ActorID:    actorID,
		Priority:   5,
	})
	if err != nil {
		log.Printf("[CONTEXT] Failed to publish %s for exchange %s: %v", eventType, exchangeID, err)
	}
}
