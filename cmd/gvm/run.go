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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gateway-dao/gvm-go/cmd/gvm/internal/config"
	"github.com/gateway-dao/gvm-go/logger"
	"github.com/gateway-dao/gvm-go/mpc"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: `Garble, obliviously transfer, and evaluate a demo function against two parties' private inputs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := viper.GetString("fn")
		width := viper.GetInt("width")

		d, err := lookupDemo(name)
		if err != nil {
			return err
		}

		contribIn, err := config.ReadInputFile(viper.GetString("contrib"))
		if err != nil {
			return fmt.Errorf("reading contributor input: %w", err)
		}
		evalIn, err := config.ReadInputFile(viper.GetString("eval"))
		if err != nil {
			return fmt.Errorf("reading evaluator input: %w", err)
		}

		c := d.build(width)
		contribBits := blastBits(contribIn.Value, c.NumContribInputs())
		evalBits := blastBits(evalIn.Value, c.NumEvalInputs())

		out, err := mpc.Simulate(c, contribBits, evalBits)
		if err != nil {
			logger.Logger().Error("MPC simulation failed", "fn", name, "err", err)
			return fmt.Errorf("simulating: %w", err)
		}

		if len(out)%d.outputFields != 0 {
			return fmt.Errorf("fn=%s produced %d output bits, not divisible into %d field(s)", name, len(out), d.outputFields)
		}
		fieldWidth := len(out) / d.outputFields
		for i := 0; i < d.outputFields; i++ {
			field := out[i*fieldWidth : (i+1)*fieldWidth]
			u := packBits(field)
			fmt.Printf("fn=%s field=%d unsigned=%d signed=%d\n", name, i, u, signExtend(u, fieldWidth))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().String("fn", "", "demo function name")
	runCmd.Flags().Int("width", 8, "bit width")
	runCmd.Flags().String("contrib", "", "path to the contributor's YAML input file")
	runCmd.Flags().String("eval", "", "path to the evaluator's YAML input file")
}
