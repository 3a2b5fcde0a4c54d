package classify

import (
	"fmt"
	"github.com/packagewjx/container-anomaly/internal/utils"
	"github.com/pkg/errors"
	"math"
	"math/rand"
)

const (
	DefaultNumTrees      = 100
	DefaultMaxSamples    = 256
	DefaultContamination = 0.1
	DefaultSeed          = 42
)

// 污染率为0时使用固定的偏移量
const autoOffset = -0.5

const eulerGamma = 0.5772156649015329

type ForestParams struct {
	NumTrees      int     // 树的数量
	MaxSamples    int     // 每棵树的采样数量，不超过训练数据量
	Contamination float64 // 训练数据中异常的比例，决定判定阈值。为0时阈值固定为-0.5
	Seed          int64
}

func DefaultForestParams() ForestParams {
	return ForestParams{
		NumTrees:      DefaultNumTrees,
		MaxSamples:    DefaultMaxSamples,
		Contamination: DefaultContamination,
		Seed:          DefaultSeed,
	}
}

func (p *ForestParams) Complete() error {
	if p.NumTrees <= 0 {
		return fmt.Errorf("树的数量必须为正数，现在为%d", p.NumTrees)
	}
	if p.MaxSamples <= 0 {
		return fmt.Errorf("采样数量必须为正数，现在为%d", p.MaxSamples)
	}
	if p.Contamination < 0 || p.Contamination > 0.5 {
		return fmt.Errorf("污染率应该在0到0.5之间，现在为%f", p.Contamination)
	}
	return nil
}

// 树以数组形式保存，下标0为根
type isolationTree struct {
	Nodes []treeNode
}

type treeNode struct {
	Feature   int
	Threshold float64
	Left      int32
	Right     int32
	Size      int // 训练时到达此节点的样本数
	Leaf      bool
}

// IsolationForest 孤立森林。随机选择特征与切分点反复切分样本，越容易被孤立的点越异常。
type IsolationForest struct {
	Params      ForestParams
	Trees       []*isolationTree
	NumFeatures int
	SampleSize  int     // 实际使用的每棵树采样数量
	Offset      float64 // Score低于此值判定为异常
}

var _ Detector = &IsolationForest{}

func NewIsolationForest(params ForestParams) (*IsolationForest, error) {
	if err := params.Complete(); err != nil {
		return nil, err
	}
	return &IsolationForest{Params: params}, nil
}

func (f *IsolationForest) Fitted() bool {
	return len(f.Trees) != 0
}

func (f *IsolationForest) Fit(data [][]float64) error {
	if len(data) == 0 {
		return errors.New("训练数据为空")
	}
	numFeatures := len(data[0])
	if numFeatures == 0 {
		return errors.New("训练数据没有特征")
	}
	for i, x := range data {
		if len(x) != numFeatures {
			return errors.Wrap(ErrFeatureWidth, fmt.Sprintf("第%d行有%d个特征，应为%d", i, len(x), numFeatures))
		}
	}

	sampleSize := f.Params.MaxSamples
	if sampleSize > len(data) {
		sampleSize = len(data)
	}
	maxDepth := int(math.Ceil(math.Log2(math.Max(float64(sampleSize), 2))))

	rnd := rand.New(rand.NewSource(f.Params.Seed))
	builder := &treeBuilder{
		rnd:      rnd,
		maxDepth: maxDepth,
		lo:       make([]float64, numFeatures),
		hi:       make([]float64, numFeatures),
	}

	indices := make([]int, len(data))
	for i := range indices {
		indices[i] = i
	}
	sample := make([][]float64, sampleSize)
	trees := make([]*isolationTree, f.Params.NumTrees)
	for t := range trees {
		// 不放回采样：部分Fisher-Yates洗牌
		for i := 0; i < sampleSize; i++ {
			j := i + rnd.Intn(len(indices)-i)
			indices[i], indices[j] = indices[j], indices[i]
			sample[i] = data[indices[i]]
		}
		tree := &isolationTree{Nodes: make([]treeNode, 0, 2*sampleSize)}
		builder.build(tree, sample, 0)
		trees[t] = tree
	}

	f.Trees = trees
	f.NumFeatures = numFeatures
	f.SampleSize = sampleSize

	if f.Params.Contamination == 0 {
		f.Offset = autoOffset
		return nil
	}
	scores := make([]float64, len(data))
	for i, x := range data {
		scores[i] = f.score(x)
	}
	f.Offset = utils.Percentile(scores, 100*f.Params.Contamination)
	return nil
}

// Score 返回-2^(-E(h(x))/c(n))，取值在[-1,0]，越小越异常
func (f *IsolationForest) Score(x []float64) (float64, error) {
	if !f.Fitted() {
		return 0, ErrNotFitted
	}
	if len(x) != f.NumFeatures {
		return 0, errors.Wrap(ErrFeatureWidth, fmt.Sprintf("输入有%d个特征，模型需要%d个", len(x), f.NumFeatures))
	}
	return f.score(x), nil
}

// DecisionFunction Score减去Offset，小于0为异常
func (f *IsolationForest) DecisionFunction(x []float64) (float64, error) {
	score, err := f.Score(x)
	if err != nil {
		return 0, err
	}
	return score - f.Offset, nil
}

func (f *IsolationForest) Predict(x []float64) (Outlier, error) {
	decision, err := f.DecisionFunction(x)
	if err != nil {
		return 0, err
	}
	if decision < 0 {
		return Anomaly, nil
	}
	return Inlier, nil
}

func (f *IsolationForest) score(x []float64) float64 {
	total := 0.0
	for _, tree := range f.Trees {
		total += tree.pathLength(x)
	}
	avg := total / float64(len(f.Trees))
	c := averagePathLength(f.SampleSize)
	if c == 0 {
		c = 1
	}
	return -math.Pow(2, -avg/c)
}

func (t *isolationTree) pathLength(x []float64) float64 {
	depth := 0
	node := &t.Nodes[0]
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = &t.Nodes[node.Left]
		} else {
			node = &t.Nodes[node.Right]
		}
		depth++
	}
	// 叶子中未被孤立的点按随机二叉搜索树的平均深度补齐
	return float64(depth) + averagePathLength(node.Size)
}

// averagePathLength n个点的二叉搜索树中查找失败的平均路径长度c(n)
func averagePathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	if n == 2 {
		return 1
	}
	return 2*(math.Log(float64(n-1))+eulerGamma) - 2*float64(n-1)/float64(n)
}

type treeBuilder struct {
	rnd      *rand.Rand
	maxDepth int
	lo       []float64
	hi       []float64
}

// build 递归建树，返回节点下标。会原地重排sample
func (b *treeBuilder) build(tree *isolationTree, sample [][]float64, depth int) int32 {
	idx := int32(len(tree.Nodes))
	tree.Nodes = append(tree.Nodes, treeNode{Size: len(sample), Leaf: true})
	if len(sample) <= 1 || depth >= b.maxDepth {
		return idx
	}

	// 只在取值不唯一的特征中选择，全部相同时作为叶子
	copy(b.lo, sample[0])
	copy(b.hi, sample[0])
	for _, x := range sample[1:] {
		for fi, v := range x {
			if v < b.lo[fi] {
				b.lo[fi] = v
			} else if v > b.hi[fi] {
				b.hi[fi] = v
			}
		}
	}
	candidates := make([]int, 0, len(b.lo))
	for fi := range b.lo {
		if b.hi[fi] > b.lo[fi] {
			candidates = append(candidates, fi)
		}
	}
	if len(candidates) == 0 {
		return idx
	}

	feature := candidates[b.rnd.Intn(len(candidates))]
	lo, hi := b.lo[feature], b.hi[feature]
	threshold := lo + b.rnd.Float64()*(hi-lo)

	// 小于等于阈值的放在左侧
	i, j := 0, len(sample)-1
	for i <= j {
		if sample[i][feature] <= threshold {
			i++
		} else {
			sample[i], sample[j] = sample[j], sample[i]
			j--
		}
	}

	left := b.build(tree, sample[:i], depth+1)
	right := b.build(tree, sample[i:], depth+1)
	node := &tree.Nodes[idx]
	node.Feature = feature
	node.Threshold = threshold
	node.Left = left
	node.Right = right
	node.Leaf = false
	return idx
}
