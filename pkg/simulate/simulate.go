package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_publisher.go -package=mocks helmetwatch.xyz/alert-console/pkg/simulate IPublisher

// IPublisher writes an alert into the realtime feed.
type IPublisher interface {
	Publish(ctx context.Context, alert models.Alert) error
}

type Kind string

const (
	KindHelmet        Kind = "helmet"
	KindEnvironmental Kind = "environmental"
)

const (
	DefaultHelmetChance        = 0.005
	DefaultEnvironmentalChance = 0.003

	DefaultHelmetInterval        = time.Minute
	DefaultEnvironmentalInterval = 2 * time.Minute
)

type Miner struct {
	ID       int
	Name     string
	HelmetID string
	Section  string
}

var Miners = []Miner{
	{ID: 1, Name: "John Smith", HelmetID: "H-1001", Section: "Section A"},
	{ID: 2, Name: "Sarah Johnson", HelmetID: "H-1002", Section: "Safety"},
	{ID: 3, Name: "Michael Brown", HelmetID: "H-1003", Section: "Section B"},
	{ID: 4, Name: "Emily Davis", HelmetID: "H-1004", Section: "Environmental"},
}

var GasLocations = []string{"Section A", "Section B", "Section C", "Main Shaft", "Ventilation Area"}

// Simulator produces demo emergencies. Each check fires with its chance.
type Simulator struct {
	HelmetChance        float64
	EnvironmentalChance float64

	publisher IPublisher
	now       func() time.Time

	// rnd is not safe for concurrent use
	mu  sync.Mutex
	rnd *rand.Rand
}

func New(publisher IPublisher, rnd *rand.Rand) *Simulator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		HelmetChance:        DefaultHelmetChance,
		EnvironmentalChance: DefaultEnvironmentalChance,
		publisher:           publisher,
		now:                 time.Now,
		rnd:                 rnd,
	}
}

func (s *Simulator) logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameSimulator)
}

func (s *Simulator) draw(chance float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64() < chance
}

func (s *Simulator) pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// CheckHelmet presses a random miner's emergency button with HelmetChance.
func (s *Simulator) CheckHelmet(ctx context.Context) (*models.Alert, error) {
	if !s.draw(s.HelmetChance) {
		return nil, nil
	}
	alert, err := s.Emergency(ctx, KindHelmet)
	return &alert, err
}

// CheckEnvironmental raises a gas alert at a random location with EnvironmentalChance.
func (s *Simulator) CheckEnvironmental(ctx context.Context) (*models.Alert, error) {
	if !s.draw(s.EnvironmentalChance) {
		return nil, nil
	}
	alert, err := s.Emergency(ctx, KindEnvironmental)
	return &alert, err
}

// Tick runs both checks once and returns what was published.
func (s *Simulator) Tick(ctx context.Context) ([]models.Alert, error) {
	var published []models.Alert
	for _, check := range []func(context.Context) (*models.Alert, error){s.CheckHelmet, s.CheckEnvironmental} {
		alert, err := check(ctx)
		if err != nil {
			return published, err
		}
		if alert != nil {
			published = append(published, *alert)
		}
	}
	return published, nil
}

// Emergency publishes an alert of kind right away.
func (s *Simulator) Emergency(ctx context.Context, kind Kind) (models.Alert, error) {
	var alert models.Alert
	switch kind {
	case KindHelmet:
		alert = HelmetAlert(Miners[s.pick(len(Miners))])
	case KindEnvironmental:
		alert = EnvironmentalAlert(GasLocations[s.pick(len(GasLocations))])
	default:
		return models.Alert{}, fmt.Errorf("unknown emergency kind %q", kind)
	}
	alert.ID = uuid.NewString()
	alert.Timestamp = models.MillisOf(s.now())

	if err := s.publisher.Publish(ctx, alert); err != nil {
		s.logger().Error("Failed to publish simulated alert", zap.String("kind", string(kind)), zap.Error(err))
		return alert, err
	}

	s.logger().Info("Simulated alert published", zap.String("kind", string(kind)), zap.Reflect("alert", alert))
	return alert, nil
}

func HelmetAlert(miner Miner) models.Alert {
	return models.Alert{
		Type:     models.AlertTypeHelmetEmergency,
		Location: miner.Section,
		Message: fmt.Sprintf("Emergency button pressed on helmet %s by %s. Immediate assistance required.",
			miner.HelmetID, miner.Name),
		MinerID:  strconv.Itoa(miner.ID),
		HelmetID: miner.HelmetID,
	}
}

func EnvironmentalAlert(location string) models.Alert {
	return models.Alert{
		Type:     models.AlertTypeEnvironmental,
		Location: location,
		Message:  fmt.Sprintf("High gas levels detected in %s. Evacuation may be required.", location),
	}
}

// Run checks for helmet and environmental emergencies on their own intervals
// until ctx is done. Publish errors are logged and do not stop the loop.
func (s *Simulator) Run(ctx context.Context, helmetEvery time.Duration, environmentalEvery time.Duration) error {
	if helmetEvery <= 0 {
		helmetEvery = DefaultHelmetInterval
	}
	if environmentalEvery <= 0 {
		environmentalEvery = DefaultEnvironmentalInterval
	}

	helmetTicker := time.NewTicker(helmetEvery)
	defer helmetTicker.Stop()
	environmentalTicker := time.NewTicker(environmentalEvery)
	defer environmentalTicker.Stop()

	s.logger().Info("Simulator started",
		zap.Duration("helmet_interval", helmetEvery),
		zap.Duration("environmental_interval", environmentalEvery),
		zap.Float64("helmet_chance", s.HelmetChance),
		zap.Float64("environmental_chance", s.EnvironmentalChance))

	for {
		select {
		case <-ctx.Done():
			s.logger().Info("Simulator stopped")
			return ctx.Err()
		case <-helmetTicker.C:
			_, _ = s.CheckHelmet(ctx)
		case <-environmentalTicker.C:
			_, _ = s.CheckEnvironmental(ctx)
		}
	}
}
