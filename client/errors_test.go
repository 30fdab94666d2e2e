package client

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractMessage(t *testing.T) {
	Convey("错误消息抽取的优先级", t, func() {
		Convey("message 字段优先", func() {
			So(ExtractMessage([]byte(`{"message":"boom","detail":"ignored"}`)), ShouldEqual, "boom")
		})
		Convey("其次 detail 字段", func() {
			So(ExtractMessage([]byte(`{"detail":"not found"}`)), ShouldEqual, "not found")
		})
		Convey("字段级错误展平为一行（键名排序）", func() {
			body := []byte(`{"source_type":["required"],"images":["at least one","bad format"]}`)
			So(ExtractMessage(body), ShouldEqual, "images: at least one, bad format; source_type: required")
		})
		Convey("非 JSON 退回原始文本", func() {
			So(ExtractMessage([]byte("  upstream timeout  ")), ShouldEqual, "upstream timeout")
		})
		Convey("空响应体给出通用消息", func() {
			So(ExtractMessage(nil), ShouldEqual, "request failed")
		})
	})
}

func TestAPIErrorString(t *testing.T) {
	Convey("APIError 文本包含状态码与消息", t, func() {
		err := &APIError{StatusCode: 422, Message: "invalid params"}
		So(err.Error(), ShouldEqual, "api error (422): invalid params")
	})
}
