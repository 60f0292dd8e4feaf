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

// Package config reads the YAML input files the run subcommand feeds to
// each party of the simulated MPC driver.
package config

import (
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// Input is one party's private value for a demo run. Negative values are
// accepted; they are bit-blasted through their two's-complement
// representation at the chosen demo function's width, up to 64 bits (bits
// above 63 are zero-filled).
type Input struct {
	Value int64 `yaml:"value"`
}

// ReadInputFile reads and parses a party's input file.
func ReadInputFile(filePath string) (*Input, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	in := &Input{}
	if err := yaml.Unmarshal(raw, in); err != nil {
		return nil, err
	}
	return in, nil
}
