package playback

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/casaval/posio/internal/protocol"
)

// Game runs one practice game: it announces a city every turn, accepts one
// answer per player per turn, and reveals results on schedule regardless of
// what clients think their phase is.
type Game struct {
	logger       *slog.Logger
	id           string
	turnDuration time.Duration
	broker       *Broker

	inbox   chan gameMsg
	players map[string]*player

	city      City
	turnOpen  bool
	cityIndex int
}

type player struct {
	name     string
	outbox   chan []byte
	score    float64
	answered bool
	lat, lng float64
}

type gameMsg interface{ isGameMsg() }

type joinMsg struct {
	playerID string
	name     string
	outbox   chan []byte
}

type leaveMsg struct{ playerID string }

type answerMsg struct {
	playerID string
	lat, lng float64
}

func (joinMsg) isGameMsg()   {}
func (leaveMsg) isGameMsg()  {}
func (answerMsg) isGameMsg() {}

func NewGame(logger *slog.Logger, id string, turnDuration time.Duration, broker *Broker) *Game {
	return &Game{
		logger:       logger,
		id:           id,
		turnDuration: turnDuration,
		broker:       broker,
		inbox:        make(chan gameMsg, 64),
		players:      make(map[string]*player),
		cityIndex:    rand.Intn(len(cities)),
	}
}

// Join registers a player and its direct outbox for targeted frames.
func (g *Game) Join(playerID, name string, outbox chan []byte) {
	g.inbox <- joinMsg{playerID: playerID, name: name, outbox: outbox}
}

// Leave drops a player.
func (g *Game) Leave(playerID string) {
	g.inbox <- leaveMsg{playerID: playerID}
}

// Answer records a player's guess for the open turn. Extra answers in the
// same turn are ignored.
func (g *Game) Answer(playerID string, lat, lng float64) {
	g.inbox <- answerMsg{playerID: playerID, lat: lat, lng: lng}
}

// Run owns all game state on one goroutine until ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.turnDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if g.turnOpen {
				g.endTurn()
			}
			g.startTurn()

		case m := <-g.inbox:
			switch msg := m.(type) {
			case joinMsg:
				g.players[msg.playerID] = &player{name: msg.name, outbox: msg.outbox}
				g.logger.Info("player joined", "game_id", g.id, "player", msg.name)
				g.sendLeaderboards()

			case leaveMsg:
				delete(g.players, msg.playerID)

			case answerMsg:
				p, ok := g.players[msg.playerID]
				if !ok || !g.turnOpen || p.answered {
					break
				}
				p.answered = true
				p.lat, p.lng = msg.lat, msg.lng
			}
		}
	}
}

func (g *Game) startTurn() {
	g.city = cities[g.cityIndex%len(cities)]
	g.cityIndex++
	g.turnOpen = true
	for _, p := range g.players {
		p.answered = false
	}

	g.broker.Publish(g.id, protocol.EventNewTurn, protocol.NewTurn{
		City:    g.city.Name,
		Country: g.city.Country,
	})
	g.logger.Info("turn started", "game_id", g.id, "city", g.city.Name)
}

func (g *Game) endTurn() {
	g.turnOpen = false

	type result struct {
		p        *player
		distance float64
	}
	var answered []result
	for _, p := range g.players {
		if p.answered {
			d := haversineKm(p.lat, p.lng, g.city.Lat, g.city.Lng)
			answered = append(answered, result{p: p, distance: d})
		}
	}
	sort.Slice(answered, func(i, j int) bool { return answered[i].distance < answered[j].distance })

	for rank, r := range answered {
		score := scoreFor(r.distance)
		r.p.score += float64(score)
		g.sendTo(r.p, protocol.EventPlayerResults, protocol.PlayerResults{
			Lat:      r.p.lat,
			Lng:      r.p.lng,
			Distance: r.distance,
			Score:    score,
			Rank:     rank + 1,
			Total:    len(answered),
		})
	}

	end := protocol.EndOfTurn{
		CorrectAnswer: protocol.CorrectAnswer{Lat: g.city.Lat, Lng: g.city.Lng, Name: g.city.Name},
	}
	if len(answered) > 0 {
		best := answered[0]
		end.BestAnswer = &protocol.BestAnswer{Lat: best.p.lat, Lng: best.p.lng, Distance: best.distance}
	}
	g.broker.Publish(g.id, protocol.EventEndOfTurn, end)

	g.sendLeaderboards()
}

// sendLeaderboards sends each player a snapshot with its own rank filled in.
func (g *Game) sendLeaderboards() {
	type standing struct {
		id string
		p  *player
	}
	order := make([]standing, 0, len(g.players))
	for id, p := range g.players {
		order = append(order, standing{id: id, p: p})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].p.score != order[j].p.score {
			return order[i].p.score > order[j].p.score
		}
		return order[i].p.name < order[j].p.name
	})

	topTen := make([]protocol.LeaderboardEntry, 0, 10)
	for i, s := range order {
		if i == 10 {
			break
		}
		topTen = append(topTen, protocol.LeaderboardEntry{PlayerName: s.p.name, Score: s.p.score})
	}

	for i, s := range order {
		update := protocol.LeaderboardUpdate{TopTen: topTen, PlayerScore: s.p.score}
		if s.p.score > 0 {
			rank := i
			update.PlayerRank = &rank
		}
		g.sendTo(s.p, protocol.EventLeaderboardUpdate, update)
	}
}

func (g *Game) sendTo(p *player, event string, payload any) {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		g.logger.Error("encoding frame failed", "event", event, "error", err)
		return
	}
	select {
	case p.outbox <- frame:
	default:
		// Slow connection; the frame is dropped, the websocket layer will
		// catch up or disconnect.
	}
}
