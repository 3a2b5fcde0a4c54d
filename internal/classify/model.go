package classify

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"github.com/pkg/errors"
	"io"
	"os"
)

// 模型文件以magic开头，其后为gob编码的模型
const modelMagic = "CAIF"

const modelVersion = 1

type modelHeader struct {
	Version   int
	Algorithm AlgorithmType
}

func WriteModel(out io.Writer, forest *IsolationForest) error {
	if !forest.Fitted() {
		return ErrNotFitted
	}
	if _, err := io.WriteString(out, modelMagic); err != nil {
		return errors.Wrap(err, "写入模型头出错")
	}
	encoder := gob.NewEncoder(out)
	if err := encoder.Encode(&modelHeader{Version: modelVersion, Algorithm: IsolationForestType}); err != nil {
		return errors.Wrap(err, "写入模型头出错")
	}
	if err := encoder.Encode(forest); err != nil {
		return errors.Wrap(err, "序列化模型出错")
	}
	return nil
}

func ReadModel(in io.Reader) (*IsolationForest, error) {
	magic := make([]byte, len(modelMagic))
	if _, err := io.ReadFull(in, magic); err != nil {
		return nil, errors.Wrap(err, "读取模型头出错")
	}
	if string(magic) != modelMagic {
		return nil, errors.New("不是有效的模型文件")
	}

	decoder := gob.NewDecoder(in)
	header := &modelHeader{}
	if err := decoder.Decode(header); err != nil {
		return nil, errors.Wrap(err, "读取模型头出错")
	}
	if header.Version != modelVersion {
		return nil, fmt.Errorf("不支持的模型版本%d", header.Version)
	}
	if header.Algorithm != IsolationForestType {
		return nil, fmt.Errorf("不支持的算法%s", header.Algorithm)
	}

	forest := &IsolationForest{}
	if err := decoder.Decode(forest); err != nil {
		return nil, errors.Wrap(err, "反序列化模型出错")
	}
	if !forest.Fitted() || forest.NumFeatures == 0 {
		return nil, errors.New("模型文件中没有训练好的模型")
	}
	return forest, nil
}

// SaveModel 将训练好的模型写入文件
func SaveModel(fileName string, forest *IsolationForest) error {
	fout, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "创建模型文件错误")
	}
	writer := bufio.NewWriter(fout)
	if err = WriteModel(writer, forest); err != nil {
		_ = fout.Close()
		return err
	}
	if err = writer.Flush(); err != nil {
		_ = fout.Close()
		return errors.Wrap(err, "写入模型文件错误")
	}
	return errors.Wrap(fout.Close(), "关闭模型文件错误")
}

// LoadModel 从文件读取模型
func LoadModel(fileName string) (*IsolationForest, error) {
	fin, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "打开模型文件错误")
	}
	defer func() {
		_ = fin.Close()
	}()

	return ReadModel(bufio.NewReader(fin))
}
