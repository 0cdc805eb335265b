// Command maci-keys generates MACI key pairs, or derives the public key of
// an existing serialized private key.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	flag "github.com/spf13/pflag"
	"github.com/vocdoni/maci-domainobjs/domainobjs"
	"github.com/vocdoni/maci-domainobjs/internal"
	"github.com/vocdoni/maci-domainobjs/log"
	"golang.org/x/sync/errgroup"
)

// KeyPairOutput is the JSON line printed for every key pair.
type KeyPairOutput struct {
	PrivKey        string   `json:"privKey"`
	PubKey         string   `json:"pubKey"`
	PubKeyCoords   []string `json:"pubKeyCoords"`
	CircuitPrivKey string   `json:"circuitPrivKey"`
}

func newKeyPairOutput(kp *domainobjs.KeyPair) *KeyPairOutput {
	return &KeyPairOutput{
		PrivKey:        kp.PrivKey.Serialize(),
		PubKey:         kp.PubKey.Serialize(),
		PubKeyCoords:   kp.PubKey.AsCircuitInputs(),
		CircuitPrivKey: kp.PrivKey.AsCircuitInputs(),
	}
}

func main() {
	count := flag.IntP("count", "n", 1, "number of key pairs to generate")
	privKey := flag.StringP("privkey", "k", "", "serialized private key (macisk.<hex>) to derive the public key from")
	logLevel := flag.StringP("log.level", "l", "error", "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "maci-keys v%s\n\n", internal.Version)
		fmt.Fprintf(os.Stderr, "Usage: maci-keys [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Generate 10 key pairs\n")
		fmt.Fprintf(os.Stderr, "  maci-keys --count 10\n\n")
		fmt.Fprintf(os.Stderr, "  # Derive the public key of a private key\n")
		fmt.Fprintf(os.Stderr, "  maci-keys --privkey macisk.5\n")
	}
	flag.Parse()
	log.Init(*logLevel, "stderr")

	var err error
	if *privKey != "" {
		err = derive(os.Stdout, *privKey)
	} else {
		err = generate(os.Stdout, *count)
	}
	if err != nil {
		log.Fatalf("maci-keys: %v", err)
	}
}

// derive prints the key pair of a serialized private key.
func derive(w io.Writer, serialized string) error {
	priv, err := domainobjs.UnserializePrivateKey(serialized)
	if err != nil {
		return err
	}
	kp, err := domainobjs.KeyPairFromPrivateKey(priv)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(newKeyPairOutput(kp))
}

// generate creates count key pairs in parallel and prints them in order.
func generate(w io.Writer, count int) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	outputs := make([]*KeyPairOutput, count)
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range count {
		g.Go(func() error {
			outputs[i] = newKeyPairOutput(domainobjs.NewKeyPair())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Debugw("generated key pairs", "count", count)
	enc := json.NewEncoder(w)
	for _, out := range outputs {
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
