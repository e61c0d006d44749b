// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package genetic

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// PoolSnapshot summarises one generation for the CSV log: best and
// mean fitness, and how many genes in the pool are still alive.
type PoolSnapshot struct {
	Generation  int
	BestFitness float64
	MeanFitness float64
	AliveCount  int
}

// Snapshot summarises pool at its current generation number.
func Snapshot(pool *Pool, generation int) PoolSnapshot {
	var sum float64
	alive := 0
	best := 0.0
	for _, g := range pool.Genes {
		f := g.Fitness()
		sum += f
		if f > best {
			best = f
		}
		if g.Alive() {
			alive++
		}
	}
	mean := 0.0
	if len(pool.Genes) > 0 {
		mean = sum / float64(len(pool.Genes))
	}
	return PoolSnapshot{Generation: generation, BestFitness: best, MeanFitness: mean, AliveCount: alive}
}

// FitnessLogger appends one CSV row per generation to path, in the
// same "open, write, flush, close on every tick" style as the
// teacher's periodic SNMP logger: rather than hold the file open for
// a long-running search, it reopens on each write so the log survives
// rotation or truncation between generations. As in that logger, the
// file-name part of path is expanded as a time.Format layout at each
// write.
func FitnessLogger(path string, snapshots <-chan PoolSnapshot) {
	if path == "" {
		return
	}
	for snap := range snapshots {
		logdir, logfile := filepath.Split(path)
		f, err := os.OpenFile(logdir+time.Now().Format(logfile), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Println(err)
			return
		}
		w := csv.NewWriter(f)
		if stat, err := f.Stat(); err == nil && stat.Size() == 0 {
			if err := w.Write([]string{"Unix", "Generation", "BestFitness", "MeanFitness", "AliveCount"}); err != nil {
				log.Println(err)
			}
		}
		row := []string{
			fmt.Sprint(time.Now().Unix()),
			fmt.Sprint(snap.Generation),
			fmt.Sprintf("%f", snap.BestFitness),
			fmt.Sprintf("%f", snap.MeanFitness),
			fmt.Sprint(snap.AliveCount),
		}
		if err := w.Write(row); err != nil {
			log.Println(err)
		}
		w.Flush()
		f.Close()
	}
}
