package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	consoleGrpc "helmetwatch.xyz/alert-console/pkg/grpc"
)

var maxOperators int = 200
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var httpClient *resty.Client
var grpcClient *consoleGrpc.Client

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

func main() {
	operators := make([]string, maxOperators)
	for i := 0; i < maxOperators; i++ {
		operators[i] = "operator-" + uuid.NewString()[:8]
	}
	fmt.Printf("generated %v operators\n", maxOperators)

	httpClient = resty.New().SetBaseURL(fmt.Sprintf("http://%s", httpHostPort)).SetTimeout(5 * time.Second)

	resp, err := httpClient.R().Get("/healthz")
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	if resp.StatusCode() != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.Dial(grpcHostPort, grpc.WithInsecure())
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = consoleGrpc.NewClient(conn)

	fmt.Printf("gRPC server verified and connected\n")

	startTime := time.Now()
	wg := sync.WaitGroup{}
	for i := 0; i < maxOperators; i++ {
		i := i
		wg.Add(1)
		go func() {
			doAction(operators[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime := time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v operators: used time=%v seconds, throughput=%v action/second\n",
		maxOperators, usedTime.Seconds(), float64(maxOperators*3)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func pause() time.Duration {
	rndMu.Lock()
	defer rndMu.Unlock()
	return time.Duration(100+rnd.Int31n(1000)) * time.Millisecond
}

func doAction(operator string) {
	actions := []func() string{
		getCurrentAction,
		detailAction,
		func() string { return acknowledgeAction(operator) },
	}
	rndMu.Lock()
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
	})
	rndMu.Unlock()

	for _, action := range actions {
		name := action()
		fmt.Printf("\rexecuted action %v for operator %v", name, operator)
		time.Sleep(pause())
	}
}

func getCurrentAction() string {
	if flipCoin() {
		resp, err := httpClient.R().Get("/alert/current")
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
		} else if resp.StatusCode() != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
	} else {
		resp, err := grpcClient.GetCurrent(context.Background())
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
		} else if !resp.Status.Success {
			fmt.Printf("\nresponse success = false: %v\n", resp.Status)
		}
	}
	return "GetCurrent"
}

// detailAction opens and cancels the detail view. Opening fails with a
// conflict when nothing is current, which is expected under load.
func detailAction() string {
	if flipCoin() {
		if _, err := httpClient.R().Post("/alert/current/view"); err != nil {
			fmt.Printf("\nerror: %v\n", err)
		}
		if _, err := httpClient.R().Post("/alert/current/cancel"); err != nil {
			fmt.Printf("\nerror: %v\n", err)
		}
	} else {
		if _, err := grpcClient.OpenDetail(context.Background()); err != nil {
			fmt.Printf("\nerror: %v\n", err)
		}
		if _, err := grpcClient.CancelDetail(context.Background()); err != nil {
			fmt.Printf("\nerror: %v\n", err)
		}
	}
	return "Detail"
}

func acknowledgeAction(operator string) string {
	alertID := uuid.NewString()
	if flipCoin() {
		resp, err := httpClient.R().
			SetBody(map[string]string{"resolvedBy": operator}).
			SetPathParam("alertId", alertID).
			Post("/alerts/{alertId}/acknowledge")
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
		} else if resp.StatusCode() != http.StatusAccepted && resp.StatusCode() != http.StatusTooManyRequests {
			fmt.Printf("\nunexpected status code: %v\n", resp)
		}
	} else {
		resp, err := grpcClient.Acknowledge(context.Background(), &consoleGrpc.AcknowledgeRequest{
			AlertId:    alertID,
			ResolvedBy: operator,
		})
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
		} else if !resp.Status.Success {
			fmt.Printf("\nresponse success = false: %v\n", resp.Status)
		}
	}
	return "Acknowledge"
}
