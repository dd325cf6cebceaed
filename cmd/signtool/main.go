// signtool signs a request query from the command line, for checking
// credentials and canonical ordering against the exchange docs.
//
//	MOMENTUM_API_SECRET=... go run ./cmd/signtool symbol=BTCUSDT side=BUY type=MARKET quantity=0.01
//
// A timestamp parameter is appended automatically unless one is given.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"momentum_go/internal/infra/binance"
)

func main() {
	secret := os.Getenv("MOMENTUM_API_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "MOMENTUM_API_SECRET is not set")
		os.Exit(1)
	}
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: signtool key=value [key=value ...]")
		os.Exit(1)
	}

	var params []binance.Param
	hasTimestamp := false
	for _, arg := range os.Args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			fmt.Fprintf(os.Stderr, "bad argument %q, want key=value\n", arg)
			os.Exit(1)
		}
		if key == "timestamp" {
			hasTimestamp = true
		}
		params = append(params, binance.Param{Key: key, Value: value})
	}
	if !hasTimestamp {
		params = append(params, binance.Param{
			Key:   "timestamp",
			Value: strconv.FormatInt(time.Now().UnixMilli(), 10),
		})
	}

	signer, err := binance.NewSigner(secret)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer signer.Wipe()

	signed := signer.Sign(params)
	fmt.Println("canonical:", signed.Canonical)
	fmt.Println("signature:", signed.Signature)
	fmt.Println("query:    ", signed.Query())
}
