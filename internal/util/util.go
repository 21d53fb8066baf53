package util

import (
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"math/big"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nats-io/nuid"
	"github.com/pkg/errors"
	hashids "github.com/speps/go-hashids"
)

var (
	once      sync.Once
	netClient *http.Client
)

// create a singleton http client to ensure
// maximum reuse of connection
func newNetClient() *http.Client {
	once.Do(func() {
		var netTransport = &http.Transport{
			Dial: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).Dial,
			TLSHandshakeTimeout: 2 * time.Second,
		}
		netClient = &http.Client{
			Timeout:   time.Second * 5,
			Transport: netTransport,
		}
	})

	return netClient
}

// generate a short useful unique name - hashid in this case
func GenerateName() string {

	name := "assessor"

	// generate a random number
	number0, err := rand.Int(rand.Reader, big.NewInt(10000000))
	if err != nil {
		log.Println("error generating random seed: ", err)
		return name
	}

	hd := hashids.NewData()
	hd.Salt = "assess-core random name generator 2026"
	hd.MinLength = 5
	h, err := hashids.NewWithData(hd)
	if err != nil {
		log.Println("error auto-generating name: ", err)
		return name
	}
	e, err := h.EncodeInt64([]int64{number0.Int64()})
	if err != nil {
		log.Println("error encoding auto-generated name: ", err)
		return name
	}
	name = e

	return name

}

// generate a unique id - nuid in this case
func GenerateID() string {

	return nuid.Next()

}

// fetches a remote resource (the item catalog when served over
// http), returning the response payload as bytes, or an error
//
// method - http method to invoke (get typically)
// header - map of headers to include in request
// body - reader for any content to supply as request body
func Fetch(method string, url string, header map[string]string, body io.Reader) ([]byte, error) {

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}

	for key, value := range header {
		req.Header.Add(key, value)
	}

	res, err := newNetClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	// if response from network call is not 200, return error
	if res.StatusCode != http.StatusOK {
		return nil, errors.New(fmt.Sprintf("network call failed with response: %d", res.StatusCode))
	}

	respByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read Fetch response")
	}

	return respByte, nil
}

// small utility function embedded in major ops
// to print a performance indicator.
func TimeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	log.Printf("%s took %s", name, elapsed.Truncate(time.Millisecond).String())

}

// find an available tcp port
func AvailablePort() (int, error) {

	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, errors.Wrap(err, "cannot acquire a tcp port")
	}
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port, nil

}
