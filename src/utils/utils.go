/*
Copyright (c) CrossDB, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

var DoNotPrompt bool

func FileOrFolderExists(path string) bool {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false
		}
		ErrExit("check file or folder exists: %s: %s", path, err)
	}
	return true
}

// AskPrompt asks a yes/no question on stdout and reads the answer from
// stdin. Returns true without asking when --yes was passed.
func AskPrompt(args ...string) bool {
	if DoNotPrompt {
		return true
	}
	question := strings.Join(args, " ")
	fmt.Printf("%s? (y/n): ", question)

	answer, err := Readline(bufio.NewReader(os.Stdin))
	if err != nil {
		ErrExit("read prompt answer: %s", err)
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

func Readline(r *bufio.Reader) (string, error) {
	var line []byte
	for {
		l, more, err := r.ReadLine()
		if err != nil {
			return "", err
		}
		line = append(line, l...)
		if !more {
			break
		}
	}
	return string(line), nil
}

func CsvStringToSlice(str string) []string {
	result := lo.Map(strings.Split(str, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Filter(result, func(s string, _ int) bool {
		return s != ""
	})
}

func InsensitiveSliceContains(slice []string, s string) bool {
	return lo.ContainsBy(slice, func(item string) bool {
		return strings.EqualFold(item, s)
	})
}

func LogIfError(err error, msg string) {
	if err != nil {
		log.Errorf("%s: %v", msg, err)
	}
}
