// Command sigprint-bridge drives the sigprint pipeline against a serial
// analog frontend (or, with -dev, a simulated one), recording every emitted
// packet and fingerprint to a local SQLite database and serving an ad-hoc
// SQL debug console over it.
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/neuralbridge/sigprint-core/internal/sigprint"
	"github.com/neuralbridge/sigprint-core/internal/sigprintdb"
	"github.com/neuralbridge/sigprint-core/internal/sigprintlog"
)

var (
	devMode       = flag.Bool("dev", false, "Run against a simulated sample source instead of real hardware")
	listen        = flag.String("listen", ":8090", "Listen address for the debug SQL console")
	port          = flag.String("port", "/dev/ttyUSB0", "Serial port the analog frontend is attached to (ignored in dev mode)")
	baud          = flag.Int("baud", 921600, "Serial baud rate (ignored in dev mode)")
	dbPath        = flag.String("db", "sigprint.db", "SQLite database path")
	migrationsDir = flag.String("migrations", "internal/sigprintdb/migrations", "Migrations directory")
	stage         = flag.Uint("stage", 1, "Initial stage number (0-6)")
	stageRotate   = flag.Duration("stage-rotate", 60*time.Second, "How often to advance to the next stage (0 disables rotation)")
)

// devSampleSource builds a MockSampleSource emitting a synthetic alpha-band
// tone, so -dev mode exercises the whole pipeline without hardware.
func devSampleSource() *sigprint.MockSampleSource {
	const seconds = 10
	frames := make([][sigprint.ChannelCount]int32, sigprint.SampleRate*seconds)
	for i := range frames {
		t := float64(i) / sigprint.SampleRate
		uv := 15 * math.Sin(2*math.Pi*10*t)
		counts := int32(uv / sigprint.SampleScaleMicrovolts)
		var f [sigprint.ChannelCount]int32
		for ch := range f {
			f[ch] = counts
		}
		frames[i] = f
	}
	return &sigprint.MockSampleSource{Frames: frames}
}

// recorderSink adapts sigprintdb.DB into a sigprint.PacketSink by decoding
// every emitted frame and persisting it. Every packet's header and core
// gate/loop flags are recorded as-is; the fingerprint row (and the
// supplemental SequenceAnalyzer annotation over it) is only recorded when
// the digits actually change, since the fingerprint composer runs at
// FingerprintRate while packets are emitted at the faster PacketRate and
// would otherwise duplicate the same code every packet tick in between.
type recorderSink struct {
	db  *sigprintdb.DB
	seq *sigprint.SequenceAnalyzer

	haveLast   bool
	lastDigits [20]int
}

func newRecorderSink(db *sigprintdb.DB) *recorderSink {
	return &recorderSink{db: db, seq: sigprint.NewSequenceAnalyzer()}
}

func (s *recorderSink) Consume(frame []byte) {
	buf := make([]byte, len(frame))
	copy(buf, frame)

	decoded, err := sigprint.Decode(buf)
	if err != nil {
		sigprintlog.Logf("sigprint-bridge: dropping malformed frame: %v", err)
		return
	}
	if err := s.db.RecordPacket(decoded); err != nil {
		sigprintlog.Logf("sigprint-bridge: failed to record packet: %v", err)
	}

	if s.haveLast && decoded.Digits == s.lastDigits {
		return
	}
	s.haveLast = true
	s.lastDigits = decoded.Digits

	ev := s.seq.AddCode(decoded.Digits, time.Now())
	if ev.Gate {
		sigprintlog.Logf("sigprint-bridge: sequence gate detected (distance %.3f)", ev.GateDistance)
	}
	if ev.LoopDetected {
		sigprintlog.Logf("sigprint-bridge: sequence loop detected (period %d, strength %.3f)", ev.LoopPeriod, ev.LoopStrength)
	}

	if err := s.db.RecordFingerprint(decoded.TimestampMs, decoded.Digits, float64(decoded.Coherence), float64(decoded.Entropy), ev); err != nil {
		sigprintlog.Logf("sigprint-bridge: failed to record fingerprint: %v", err)
	}
}

func main() {
	flag.Parse()

	if *stage > 6 {
		log.Fatalf("stage must be in [0,6], got %d", *stage)
	}

	var source sigprint.SampleSource
	if *devMode {
		source = devSampleSource()
	} else {
		s, err := sigprint.OpenSerialSampleSource(*port, *baud)
		if err != nil {
			log.Fatalf("failed to open serial sample source: %v", err)
		}
		defer s.Close()
		source = s
	}

	recorder, err := sigprintdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open recording database: %v", err)
	}
	defer recorder.Close()

	if err := recorder.MigrateUp(*migrationsDir); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	clock := sigprint.NewFixedStageClock(uint8(*stage))
	sink := newRecorderSink(recorder)
	pipeline := sigprint.NewPipeline(source, clock, sink)

	ctx, stopCtx := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopCtx()

	mux := http.NewServeMux()
	if err := recorder.AttachAdminRoutes(mux); err != nil {
		log.Fatalf("failed to attach admin routes: %v", err)
	}
	server := &http.Server{Addr: *listen, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("debug server failed: %v", err)
		}
	}()

	ticker := time.NewTicker(time.Second / sigprint.SampleRate)
	defer ticker.Stop()

	var rotate <-chan time.Time
	if *stageRotate > 0 {
		rotateTicker := time.NewTicker(*stageRotate)
		defer rotateTicker.Stop()
		rotate = rotateTicker.C
	}

	log.Printf("sigprint-bridge: session %s started, recording to %s", recorder.SessionID, *dbPath)

runLoop:
	for {
		select {
		case <-ticker.C:
			pipeline.Tick()
		case <-rotate:
			clock.Advance()
		case <-ctx.Done():
			break runLoop
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("debug server shutdown error: %v", err)
	}

	log.Printf("sigprint-bridge: session %s stopped", recorder.SessionID)
}
