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

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: `Compile a demo function to a circuit and print its gate/wire counts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := viper.GetString("fn")
		width := viper.GetInt("width")

		d, err := lookupDemo(name)
		if err != nil {
			return err
		}
		c := d.build(width)

		fmt.Printf("fn=%s width=%d wires=%d gates=%d contrib_inputs=%d eval_inputs=%d outputs=%d\n",
			name, width, c.NumWires(), len(c.Gates()), c.NumContribInputs(), c.NumEvalInputs(), len(c.Outputs()))
		return nil
	},
}

func init() {
	compileCmd.Flags().String("fn", "", "demo function name")
	compileCmd.Flags().Int("width", 8, "bit width")
	if err := compileCmd.MarkFlagRequired("fn"); err != nil {
		log.Crit("Failed to mark flag required", "err", err)
	}
}
