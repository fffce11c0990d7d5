package metrics

// IncrementRoomCreated increments the room creation counter
func (m *Metrics) IncrementRoomCreated() {
	m.safeExecute("IncrementRoomCreated", func() {
		m.RoomsCreatedTotal.Inc()
	})
}

// IncrementParticipantJoined increments the join counter
func (m *Metrics) IncrementParticipantJoined() {
	m.safeExecute("IncrementParticipantJoined", func() {
		m.ParticipantsJoinedTotal.Inc()
	})
}

// IncrementVoteCast increments the vote counter
func (m *Metrics) IncrementVoteCast() {
	m.safeExecute("IncrementVoteCast", func() {
		m.VotesCastTotal.Inc()
	})
}

// IncrementBroadcast increments the broadcast counter for one event type
func (m *Metrics) IncrementBroadcast(event string) {
	m.safeExecute("IncrementBroadcast", func() {
		m.BroadcastsTotal.WithLabelValues(event).Inc()
	})
}

// SetRoomsActive sets the active rooms gauge
func (m *Metrics) SetRoomsActive(count int64) {
	m.safeExecute("SetRoomsActive", func() {
		m.RoomsActive.Set(float64(count))
	})
}

// SetWebsocketConnections sets the live channel gauge
func (m *Metrics) SetWebsocketConnections(count int) {
	m.safeExecute("SetWebsocketConnections", func() {
		m.WebsocketConnections.Set(float64(count))
	})
}
