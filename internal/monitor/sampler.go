package monitor

import (
	"context"
	"github.com/packagewjx/container-anomaly/pkg/core"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"
	"sync"
)

// Source 产生一条资源使用数据
type Source interface {
	Sample(ctx context.Context) (*core.MetricRow, error)
}

// HostSampler 使用gopsutil采集本机数据。磁盘IO为两次采样间读取的kB数，网络IO为接收的kB数
type HostSampler struct {
	mu       sync.Mutex
	prevDisk uint64
	prevNet  uint64
}

var _ Source = &HostSampler{}

func NewHostSampler(ctx context.Context) (*HostSampler, error) {
	s := &HostSampler{}
	var err error
	if s.prevDisk, err = diskReadBytes(ctx); err != nil {
		return nil, err
	}
	if s.prevNet, err = netRecvBytes(ctx); err != nil {
		return nil, err
	}
	// 作为下一次CPU使用率计算的起点
	if _, err = cpu.PercentWithContext(ctx, 0, false); err != nil {
		return nil, errors.Wrap(err, "读取CPU使用率出错")
	}
	return s, nil
}

func (s *HostSampler) Sample(ctx context.Context) (*core.MetricRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(percents) == 0 {
		return nil, errors.Wrap(err, "读取CPU使用率出错")
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "读取内存使用率出错")
	}
	diskBytes, err := diskReadBytes(ctx)
	if err != nil {
		return nil, err
	}
	netBytes, err := netRecvBytes(ctx)
	if err != nil {
		return nil, err
	}

	row := &core.MetricRow{
		CPUUsage:    percents[0],
		MemoryUsage: vm.UsedPercent,
		DiskIO:      kilobytesDelta(s.prevDisk, diskBytes),
		NetworkIO:   kilobytesDelta(s.prevNet, netBytes),
	}
	s.prevDisk = diskBytes
	s.prevNet = netBytes
	return row, nil
}

// 计数器回绕或重置时按0处理
func kilobytesDelta(prev, cur uint64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) / 1000
}

func diskReadBytes(ctx context.Context) (uint64, error) {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "读取磁盘IO出错")
	}
	total := uint64(0)
	for _, c := range counters {
		total += c.ReadBytes
	}
	return total, nil
}

func netRecvBytes(ctx context.Context) (uint64, error) {
	counters, err := psnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return 0, errors.Wrap(err, "读取网络IO出错")
	}
	total := uint64(0)
	for _, c := range counters {
		total += c.BytesRecv
	}
	return total, nil
}
