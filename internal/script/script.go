// Package script 解析手势脚本
//
// 每行一条命令，# 之后为注释：
//
//	tool ellipse
//	down 10 10
//	move 110 60 shift
//	wait 25ms
//	up 110 60
//	key Escape
//	tick 2
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
)

// ErrSyntax 脚本语法错误
var ErrSyntax = errors.New("脚本语法错误")

// Op 命令类型
type Op int

const (
	OpTool Op = iota
	OpDown
	OpMove
	OpUp
	OpKey
	OpWait
	OpTick
)

var opNames = map[Op]string{
	OpTool: "tool",
	OpDown: "down",
	OpMove: "move",
	OpUp:   "up",
	OpKey:  "key",
	OpWait: "wait",
	OpTick: "tick",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Step 一条脚本命令
type Step struct {
	Line  int
	Op    Op
	Name  string        // tool 名称或按键名
	X, Y  float64       // 指针坐标
	Shift bool          // down / move 时 Shift 是否按下
	Wait  time.Duration // wait 时长
	Count int           // tick 次数
}

func (s Step) String() string {
	switch s.Op {
	case OpTool, OpKey:
		return fmt.Sprintf("%s %s", s.Op, s.Name)
	case OpDown, OpMove:
		if s.Shift {
			return fmt.Sprintf("%s %g %g shift", s.Op, s.X, s.Y)
		}
		return fmt.Sprintf("%s %g %g", s.Op, s.X, s.Y)
	case OpUp:
		return fmt.Sprintf("%s %g %g", s.Op, s.X, s.Y)
	case OpWait:
		return fmt.Sprintf("%s %s", s.Op, s.Wait)
	case OpTick:
		return fmt.Sprintf("%s %d", s.Op, s.Count)
	}
	return s.Op.String()
}

// Parse 解析脚本
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++

		text, _, _ := strings.Cut(sc.Text(), "#")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		args, err := shellwords.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: 第 %d 行: %v", ErrSyntax, line, err)
		}
		if len(args) == 0 {
			continue
		}

		step, err := parseStep(args)
		if err != nil {
			return nil, fmt.Errorf("%w: 第 %d 行: %v", ErrSyntax, line, err)
		}
		step.Line = line
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("读取脚本失败: %w", err)
	}

	return steps, nil
}

func parseStep(args []string) (Step, error) {
	cmd, rest := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "tool":
		if len(rest) != 1 {
			return Step{}, errors.New("用法: tool <name>")
		}
		return Step{Op: OpTool, Name: rest[0]}, nil

	case "down", "move":
		op := OpDown
		if cmd == "move" {
			op = OpMove
		}
		if len(rest) != 2 && len(rest) != 3 {
			return Step{}, fmt.Errorf("用法: %s <x> <y> [shift]", cmd)
		}
		x, y, err := parsePoint(rest[0], rest[1])
		if err != nil {
			return Step{}, err
		}
		step := Step{Op: op, X: x, Y: y}
		if len(rest) == 3 {
			if !strings.EqualFold(rest[2], "shift") {
				return Step{}, fmt.Errorf("未知修饰键 %q", rest[2])
			}
			step.Shift = true
		}
		return step, nil

	case "up":
		if len(rest) != 2 {
			return Step{}, errors.New("用法: up <x> <y>")
		}
		x, y, err := parsePoint(rest[0], rest[1])
		if err != nil {
			return Step{}, err
		}
		return Step{Op: OpUp, X: x, Y: y}, nil

	case "key":
		if len(rest) != 1 {
			return Step{}, errors.New("用法: key <name>")
		}
		return Step{Op: OpKey, Name: rest[0]}, nil

	case "wait":
		if len(rest) != 1 {
			return Step{}, errors.New("用法: wait <duration>")
		}
		d, err := time.ParseDuration(rest[0])
		if err != nil {
			return Step{}, err
		}
		if d < 0 {
			return Step{}, fmt.Errorf("时长不能为负: %s", rest[0])
		}
		return Step{Op: OpWait, Wait: d}, nil

	case "tick":
		step := Step{Op: OpTick, Count: 1}
		switch len(rest) {
		case 0:
		case 1:
			n, err := strconv.Atoi(rest[0])
			if err != nil || n < 1 {
				return Step{}, fmt.Errorf("无效的次数 %q", rest[0])
			}
			step.Count = n
		default:
			return Step{}, errors.New("用法: tick [n]")
		}
		return step, nil
	}

	return Step{}, fmt.Errorf("未知命令 %q", args[0])
}

func parsePoint(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("无效的坐标 %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("无效的坐标 %q", ys)
	}
	return x, y, nil
}
