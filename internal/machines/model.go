package machines

import (
	"encoding/json"
	"log"
	"time"

	"whackarcade/internal/arcade"
	"whackarcade/internal/broadcast"
	"whackarcade/internal/gamedata"
	"whackarcade/internal/wshub"
)

// Machine is one arcade cabinet. The fields below the blank line belong to the
// controller loop and must only be touched from it.
type Machine struct {
	Code        string
	Config      *MachineConfig
	Hub         *wshub.Hub
	Broadcaster *broadcast.Broadcaster
	CreatedAt   time.Time

	Game      *gamedata.Game
	SessionID string
	Player    string
	StartedAt time.Time
	Powered   bool
	Rewards   *arcade.Rewards
}

// Info is a point-in-time view of a machine for the HTTP API.
type Info struct {
	Code        string             `json:"code"`
	Powered     bool               `json:"powered"`
	Playing     bool               `json:"playing"`
	Player      string             `json:"player,omitempty"`
	SessionID   string             `json:"sessionId,omitempty"`
	RewardsLeft int                `json:"rewardsLeft"`
	Clients     int                `json:"clients"`
	Location    arcade.Location    `json:"location"`
	State       *gamedata.Snapshot `json:"state,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func (m *Machine) info() Info {
	in := Info{
		Code:      m.Code,
		Powered:   m.Powered,
		Playing:   m.Game != nil,
		Player:    m.Player,
		SessionID: m.SessionID,
		Clients:   m.Hub.Count() + m.Broadcaster.Count(),
		Location:  m.Config.Location,
		CreatedAt: m.CreatedAt,
	}
	if m.Rewards != nil {
		in.RewardsLeft = m.Rewards.Remaining
	}
	if m.Game != nil {
		s := m.Game.Snapshot(false)
		in.State = &s
	}
	return in
}

// publish fans a message out to WebSocket clients and SSE subscribers.
func (m *Machine) publish(msg wshub.ServerMessage) {
	m.Hub.Broadcast(msg)
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Machine] %s: marshal error: %v\n", m.Code, err)
		return
	}
	m.Broadcaster.Broadcast(msg.Type, string(data))
}

func (m *Machine) publishState(s gamedata.Snapshot) {
	m.publish(wshub.ServerMessage{Type: wshub.TypeState, State: &s})
}

func (m *Machine) publishSound(id string) {
	if id == "" {
		return
	}
	m.publish(wshub.ServerMessage{Type: wshub.TypeSound, Sound: id, Volume: m.Config.Game.Sounds.Volume})
}

func (m *Machine) publishReward(items []string) {
	m.publish(wshub.ServerMessage{Type: wshub.TypeReward, Reward: items})
}

// closeSurfaces shuts every open UI on the machine.
func (m *Machine) closeSurfaces() {
	m.Hub.CloseAll()
	m.Broadcaster.Broadcast(wshub.TypeClose, `{"t":"close"}`)
	m.Broadcaster.CloseAll()
}
