// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/blake2b-simd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gateway-dao/gvm-go/circuit"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: `Print a blake2b digest of a compiled circuit's gate stream`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := viper.GetString("fn")
		width := viper.GetInt("width")

		d, err := lookupDemo(name)
		if err != nil {
			return err
		}
		c := d.build(width)

		sum := blake2b.Sum256(encodeGates(c))
		fmt.Printf("fn=%s width=%d digest=%x\n", name, width, sum)
		return nil
	},
}

func init() {
	digestCmd.Flags().String("fn", "", "demo function name")
	digestCmd.Flags().Int("width", 8, "bit width")
}

// encodeGates serializes a circuit's gate list deterministically: every
// gate contributes a fixed 13-byte record (one opcode byte plus three
// big-endian uint32 wire indices), followed by each output wire index as a
// big-endian uint32, so two circuits with the same gate stream and the same
// output wires always hash identically regardless of how they were built.
func encodeGates(c *circuit.Circuit) []byte {
	gates := c.Gates()
	buf := make([]byte, 0, len(gates)*13)
	var rec [13]byte
	for _, g := range gates {
		rec[0] = byte(g.Op)
		binary.BigEndian.PutUint32(rec[1:5], uint32(g.In[0]))
		binary.BigEndian.PutUint32(rec[5:9], uint32(g.In[1]))
		binary.BigEndian.PutUint32(rec[9:13], uint32(g.Out))
		buf = append(buf, rec[:]...)
	}
	for _, w := range c.Outputs() {
		var wbuf [4]byte
		binary.BigEndian.PutUint32(wbuf[:], uint32(w))
		buf = append(buf, wbuf[:]...)
	}
	return buf
}
